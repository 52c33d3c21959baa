package vm

import (
	"github.com/aryanA101a/m6502-vm-go/logger"
)

// I/O ports. Addresses are relative to the start of the IO region.
const (
	KeyboardPort uint16 = 0x00 // read
	ScreenPort   uint16 = 0x00 // write
	EchoPort     uint16 = 0x01 // write
	TimerPort    uint16 = 0x02 // read and write
)

// port is a pair of handlers for an I/O address. A nil handler means the port
// doesn't support that direction.
type port struct {
	name  string
	read  func() uint8
	write func(value uint32)
}

// ioDispatcher routes accesses in the IO region to the peripherals.
type ioDispatcher struct {
	ports    map[uint16]port
	console  Console
	keyboard *keyboard
	timer    *Timer
	log      *logger.Logger
}

func newIODispatcher(console Console, kb *keyboard, tmr *Timer, log *logger.Logger) *ioDispatcher {
	d := &ioDispatcher{
		console:  console,
		keyboard: kb,
		timer:    tmr,
		log:      log,
	}

	d.ports = map[uint16]port{
		KeyboardPort: {name: "keyboard/screen", read: d.readKeyboard, write: d.writeScreen},
		EchoPort:     {name: "echo", write: d.writeEcho},
		TimerPort:    {name: "timer", read: d.readTimer, write: d.writeTimer},
	}

	return d
}

// Read implements the Device interface. Only the low byte of the result is
// meaningful.
func (d *ioDispatcher) Read(offset uint16, size int) uint32 {
	d.checkSize(offset, size)

	p, ok := d.ports[offset]
	if !ok || p.read == nil {
		d.log.Logf("io", "reading IO address 0x%02x", offset)
		return 0
	}
	return uint32(p.read())
}

// Write implements the Device interface.
func (d *ioDispatcher) Write(offset uint16, value uint32, size int) {
	d.checkSize(offset, size)

	p, ok := d.ports[offset]
	if !ok || p.write == nil {
		d.log.Logf("io", "writing 0x%x to IO address 0x%02x", value, offset)
		return
	}
	p.write(value)
}

func (d *ioDispatcher) checkSize(offset uint16, size int) {
	if size < 1 || size > 4 {
		d.log.Logf("io", "invalid access size %d at IO address 0x%02x", size, offset)
	}
}

func (d *ioDispatcher) readKeyboard() uint8 {
	return d.keyboard.pop()
}

// writeScreen sends the byte to the console. A line feed is always followed by
// a carriage return.
func (d *ioDispatcher) writeScreen(value uint32) {
	c := byte(value)
	d.emit(c)
	if c == '\n' {
		d.emit('\r')
	}
}

func (d *ioDispatcher) emit(c byte) {
	if _, err := d.console.Write([]byte{c}); err != nil {
		d.log.Logf("io", "console write: %v", err)
	}
}

func (d *ioDispatcher) writeEcho(value uint32) {
	d.console.SetEcho(value != 0)
}

func (d *ioDispatcher) readTimer() uint8 {
	return d.timer.Value()
}

func (d *ioDispatcher) writeTimer(value uint32) {
	d.timer.SetValue(uint8(value))
}
