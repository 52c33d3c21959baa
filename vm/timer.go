package vm

import "fmt"

// TickHandler is notified each time the timer interval elapses.
type TickHandler interface {
	HandleTick()
}

// Timer is an 8 bit countdown timer. The counter is decreased once for every
// host period (see Config.TimerPeriod). When it reaches zero the subscriber is
// notified and the counter is reloaded with the most recently written value.
// Writing zero stops the timer.
type Timer struct {
	target  uint8
	counter uint8
	handler TickHandler
}

// NewTimer is the preferred method of initialisation for the Timer type. The
// timer is stopped until a value is set.
func NewTimer() *Timer {
	return &Timer{}
}

func (tmr *Timer) String() string {
	return fmt.Sprintf("value=%#02x target=%#02x", tmr.counter, tmr.target)
}

// Subscribe registers the handler notified on every tick. Only one handler is
// kept.
func (tmr *Timer) Subscribe(h TickHandler) {
	tmr.handler = h
}

// Value returns the current counter.
func (tmr *Timer) Value() uint8 {
	return tmr.counter
}

// SetValue sets both the counter and the reload value.
func (tmr *Timer) SetValue(v uint8) {
	tmr.target = v
	tmr.counter = v
}

// Step the timer forward one period.
func (tmr *Timer) Step() {
	if tmr.target == 0 {
		return
	}

	tmr.counter--
	if tmr.counter == 0 {
		tmr.counter = tmr.target
		if tmr.handler != nil {
			tmr.handler.HandleTick()
		}
	}
}
