package vm

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/aryanA101a/m6502-vm-go/logger"
)

// fakeConsole records output and echo changes. Input is queued with typeIn()
// and delivered by Service() like a real console.
type fakeConsole struct {
	out      bytes.Buffer
	echo     bool
	echoSets int
	handler  InputHandler
	pending  []byte
}

func (c *fakeConsole) Write(p []byte) (int, error) {
	return c.out.Write(p)
}

func (c *fakeConsole) SetEcho(on bool) {
	c.echo = on
	c.echoSets++
}

func (c *fakeConsole) Subscribe(h InputHandler) {
	c.handler = h
}

func (c *fakeConsole) Service() {
	if len(c.pending) == 0 || c.handler == nil {
		return
	}
	data := c.pending
	c.pending = nil
	c.handler.HandleInput(data)
}

func (c *fakeConsole) typeIn(s string) {
	c.pending = append(c.pending, s...)
}

// fakeProcessor counts raised lines.
type fakeProcessor struct {
	pc     uint16
	raised [lineCount]int
	steps  int
}

func (p *fakeProcessor) Raise(line Line) {
	p.raised[line]++
}

func (p *fakeProcessor) SetPC(addr uint16) {
	p.pc = addr
}

func (p *fakeProcessor) PC() uint16 {
	return p.pc
}

func (p *fakeProcessor) Step() {
	p.steps++
}

func (p *fakeProcessor) total() int {
	return p.raised[IRQ] + p.raised[NMI] + p.raised[Reset]
}

// nullDevice is attached to the IO region when only memory is being tested.
type nullDevice struct {
	reads  int
	writes int
}

func (d *nullDevice) Read(offset uint16, size int) uint32 {
	d.reads++
	return 0
}

func (d *nullDevice) Write(offset uint16, value uint32, size int) {
	d.writes++
}

func writeBootImage(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boot.rom")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing boot image: %v", err)
	}
	return path
}

// logged returns true if any entry with the tag has the detail.
func logged(l *logger.Logger, tag, detail string) bool {
	for _, e := range l.Entries() {
		if e.Tag == tag && e.Detail == detail {
			return true
		}
	}
	return false
}

type testMachine struct {
	vm      *VM
	console *fakeConsole
	cpu     *fakeProcessor
	log     *logger.Logger
}

func newTestMachine(t *testing.T, image []byte) testMachine {
	t.Helper()
	m := testMachine{
		console: &fakeConsole{},
		cpu:     &fakeProcessor{},
		log:     logger.New(0),
	}

	var err error
	m.vm, err = NewVM(Config{
		BootImage: writeBootImage(t, image),
		Console:   m.console,
		Processor: m.cpu,
		Log:       m.log,
	})
	if err != nil {
		t.Fatalf("NewVM: %v", err)
	}
	return m
}
