package vm

import "github.com/aryanA101a/m6502-vm-go/logger"

// DefaultKeyboardBufferSize is the number of keystrokes held before new ones
// are dropped.
const DefaultKeyboardBufferSize = 256

// keyboard buffers bytes from the console until the CPU reads them from the
// keyboard port.
type keyboard struct {
	buffer chan byte
	log    *logger.Logger
}

func newKeyboard(size int, log *logger.Logger) *keyboard {
	if size <= 0 {
		size = DefaultKeyboardBufferSize
	}
	return &keyboard{
		buffer: make(chan byte, size),
		log:    log,
	}
}

// push a byte onto the buffer. Returns false if the buffer is full and the
// byte was dropped.
func (kb *keyboard) push(b byte) bool {
	select {
	case kb.buffer <- b:
		return true
	default:
		kb.log.Logf("keyboard", "buffer full, dropped 0x%02x", b)
		return false
	}
}

// pop the oldest byte. Returns 0 if the buffer is empty, it never blocks.
func (kb *keyboard) pop() uint8 {
	select {
	case b := <-kb.buffer:
		return b
	default:
		return 0
	}
}

func (kb *keyboard) len() int {
	return len(kb.buffer)
}
