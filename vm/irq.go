package vm

import "github.com/aryanA101a/m6502-vm-go/logger"

// Line is an interrupt request line of the CPU.
type Line int

// List of valid interrupt lines.
const (
	IRQ Line = iota
	NMI
	Reset
	lineCount
)

func (l Line) String() string {
	switch l {
	case IRQ:
		return "IRQ"
	case NMI:
		return "NMI"
	case Reset:
		return "RESET"
	}
	return "undefined"
}

// Raiser is implemented by the CPU. Raise never clears or masks a line, that
// is left to the CPU.
type Raiser interface {
	Raise(line Line)
}

// keys on the console that raise an interrupt line instead of being passed to
// the keyboard buffer
const (
	irqKey   = '/'
	nmiKey   = '*'
	resetKey = '-'
)

// Bridge turns console input and timer ticks into interrupt requests or
// keyboard data. It holds no state of its own: every byte and every tick is
// decided on independently.
type Bridge struct {
	cpu      Raiser
	keyboard *keyboard
	log      *logger.Logger
}

func newBridge(cpu Raiser, kb *keyboard, log *logger.Logger) *Bridge {
	return &Bridge{
		cpu:      cpu,
		keyboard: kb,
		log:      log,
	}
}

// HandleInput implements the InputHandler interface. Bytes are classified in
// order of arrival.
func (b *Bridge) HandleInput(data []byte) {
	for _, c := range data {
		switch c {
		case irqKey:
			b.raise(IRQ)
		case nmiKey:
			b.raise(NMI)
		case resetKey:
			b.raise(Reset)
		default:
			b.keyboard.push(c)
		}
	}
}

// HandleTick implements the TickHandler interface. Every tick raises IRQ, even
// if an earlier request has not been serviced.
func (b *Bridge) HandleTick() {
	b.cpu.Raise(IRQ)
}

func (b *Bridge) raise(line Line) {
	b.log.Logf("bridge", "console raised %s", line)
	b.cpu.Raise(line)
}
