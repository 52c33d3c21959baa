package vm

import (
	"context"
	goIO "io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/aryanA101a/m6502-vm-go/logger"
)

// InputHandler receives bytes typed on the console.
type InputHandler interface {
	HandleInput(data []byte)
}

// Console is the character console the machine talks to. Output written to
// the console must be visible before Write returns.
type Console interface {
	goIO.Writer

	// SetEcho turns echoing of typed bytes on or off.
	SetEcho(on bool)

	// Subscribe registers the handler for console input. Only one handler is
	// kept.
	Subscribe(h InputHandler)

	// Service delivers pending input to the subscriber. It is called from the
	// machine loop so that the handler runs on the same goroutine as the CPU.
	Service()
}

const (
	terminalPollInterval = 5 * time.Millisecond
	terminalInputSize    = 256
)

// Terminal is a Console on the host's stdin and stdout.
type Terminal struct {
	fd      int
	out     goIO.Writer
	echo    bool
	handler InputHandler
	input   chan byte
	log     *logger.Logger

	raw                    bool
	originalTerminalConfig unix.Termios
}

// NewTerminal creates a terminal console reading from in and writing to out.
// Echo is enabled.
func NewTerminal(in *os.File, out goIO.Writer, log *logger.Logger) *Terminal {
	if log == nil {
		log = logger.New(0)
	}
	return &Terminal{
		fd:    int(in.Fd()),
		out:   out,
		echo:  true,
		input: make(chan byte, terminalInputSize),
		log:   log,
	}
}

// Start puts the terminal into raw mode if the input is a terminal.
//
// The input descriptor is left blocking. On a tty it is usually shared with
// the output and O_NONBLOCK would make screen writes fail with EAGAIN.
func (t *Terminal) Start() error {
	if !term.IsTerminal(t.fd) {
		return nil
	}

	t.log.Log("console", "enabling raw mode")
	if err := termios.Tcgetattr(uintptr(t.fd), &t.originalTerminalConfig); err != nil {
		return errors.Wrap(err, "console: reading terminal attributes")
	}
	newTermios := t.originalTerminalConfig
	newTermios.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(uintptr(t.fd), termios.TCSANOW, &newTermios); err != nil {
		return errors.Wrap(err, "console: enabling raw mode")
	}
	t.raw = true

	return nil
}

// Stop restores the terminal to the state it was in before Start.
func (t *Terminal) Stop() error {
	if !t.raw {
		return nil
	}
	t.log.Log("console", "disabling raw mode")
	t.raw = false
	if err := termios.Tcsetattr(uintptr(t.fd), termios.TCSANOW, &t.originalTerminalConfig); err != nil {
		return errors.Wrap(err, "console: restoring terminal")
	}
	return nil
}

// ReadInput waits for input until the context is cancelled or the input is
// exhausted. Bytes are queued for Service. If the queue is full the byte is
// dropped.
func (t *Terminal) ReadInput(ctx context.Context) error {
	fds := []unix.PollFd{{Fd: int32(t.fd), Events: unix.POLLIN}}
	timeout := int(terminalPollInterval / time.Millisecond)

	buf := make([]byte, 64)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		ready, err := unix.Poll(fds, timeout)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return errors.Wrap(err, "console: waiting for input")
		}
		if ready == 0 {
			continue
		}
		if fds[0].Revents&(unix.POLLIN|unix.POLLHUP) == 0 {
			return errors.Errorf("console: input not readable (revents %#x)", fds[0].Revents)
		}

		n, err := unix.Read(t.fd, buf)
		if err == unix.EAGAIN || err == unix.EINTR {
			continue
		}
		if err != nil {
			return errors.Wrap(err, "console: reading input")
		}
		if n == 0 {
			t.log.Log("console", "end of input")
			return nil
		}

		for _, b := range buf[:n] {
			select {
			case t.input <- b:
			default:
				t.log.Logf("console", "input full, dropped 0x%02x", b)
			}
		}
	}
}

// Write implements the io.Writer interface.
func (t *Terminal) Write(p []byte) (int, error) {
	return t.out.Write(p)
}

// SetEcho implements the Console interface.
func (t *Terminal) SetEcho(on bool) {
	t.echo = on
}

// Subscribe implements the Console interface.
func (t *Terminal) Subscribe(h InputHandler) {
	t.handler = h
}

// Service implements the Console interface.
func (t *Terminal) Service() {
	n := len(t.input)
	if n == 0 {
		return
	}

	data := make([]byte, n)
	for i := range data {
		data[i] = <-t.input
	}

	if t.echo {
		if _, err := t.out.Write(data); err != nil {
			t.log.Logf("console", "echo: %v", err)
		}
	}

	if t.handler != nil {
		t.handler.HandleInput(data)
	}
}
