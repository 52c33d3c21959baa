package vm

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/aryanA101a/m6502-vm-go/logger"
	"github.com/aryanA101a/m6502-vm-go/test"
)

// prints 'A' forever
var printA = []byte{
	0xa9, 0x41, // LDA #$41
	0x8d, 0x00, 0xfe, // STA $FE00
	0x4c, 0x00, 0x10, // JMP $1000
}

func TestNewVM(t *testing.T) {
	m := newTestMachine(t, printA)

	test.ExpectEquality(t, m.cpu.pc, ROMStart)
	v, err := m.vm.Peek(ROMStart)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, printA[0])

	test.ExpectEquality(t, m.console.handler, InputHandler(m.vm.Bridge()))
	test.ExpectEquality(t, len(m.vm.Layout()), 5)
	test.ExpectEquality(t, m.vm.Memory().Region(ROMStart).ReadOnly(), true)
}

func TestNewVMMissingBootImage(t *testing.T) {
	_, err := NewVM(Config{
		BootImage: "/nonexistent/6502_bios.rom",
		Console:   &fakeConsole{},
		Processor: &fakeProcessor{},
	})
	test.DemandFailure(t, err)

	var bootErr *BootImageError
	test.ExpectSuccess(t, errors.As(err, &bootErr))
}

func TestNewVMNoConsole(t *testing.T) {
	_, err := NewVM(Config{BootImage: writeBootImage(t, printA)})
	test.ExpectFailure(t, err)
}

func TestMachinesIndependent(t *testing.T) {
	a := newTestMachine(t, printA)
	b := newTestMachine(t, printA)

	test.DemandSuccess(t, a.vm.Poke(0x0300, 0x55))
	v, err := b.vm.Peek(0x0300)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint8(0))

	a.vm.Timer().SetValue(7)
	test.ExpectEquality(t, b.vm.Timer().Value(), uint8(0))

	a.console.typeIn("/")
	a.vm.Step()
	test.ExpectEquality(t, a.cpu.raised[IRQ], 1)
	test.ExpectEquality(t, b.cpu.raised[IRQ], 0)
}

func TestStepDeliversInput(t *testing.T) {
	m := newTestMachine(t, printA)

	m.console.typeIn("Q/")
	m.vm.Step()

	test.ExpectEquality(t, m.cpu.steps, 1)
	test.ExpectEquality(t, m.cpu.raised[IRQ], 1)
	test.ExpectEquality(t, m.vm.Memory().Read(IOStart+KeyboardPort), uint8('Q'))
	test.ExpectEquality(t, m.vm.Memory().Read(IOStart+KeyboardPort), uint8(0))
}

func TestRunTimer(t *testing.T) {
	m := newTestMachine(t, printA)
	m.vm.period = time.Millisecond
	m.vm.Timer().SetValue(1)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	test.ExpectSuccess(t, m.vm.Run(ctx))

	test.ExpectSuccess(t, m.cpu.raised[IRQ] > 0)
	test.ExpectEquality(t, m.cpu.raised[NMI], 0)
	test.ExpectSuccess(t, m.cpu.steps > 0)
	test.ExpectSuccess(t, logged(m.log, "vm", "stopped"))
}

func TestRunProgram(t *testing.T) {
	con := &fakeConsole{}
	machine, err := NewVM(Config{
		BootImage: writeBootImage(t, printA),
		Console:   con,
		Log:       logger.New(0),
	})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, machine.Processor().PC(), ROMStart)

	for i := 0; i < 9; i++ {
		machine.Step()
	}
	test.ExpectEquality(t, con.out.String(), "AAA")
	test.ExpectEquality(t, machine.Processor().PC(), ROMStart)
}

func TestRunProgramNMI(t *testing.T) {
	con := &fakeConsole{}
	machine, err := NewVM(Config{
		BootImage: writeBootImage(t, printA),
		Console:   con,
	})
	test.DemandSuccess(t, err)

	// NMI handler at $0300 writes 'B' and loops
	test.DemandSuccess(t, machine.Poke(nmiVector, 0x00))
	test.DemandSuccess(t, machine.Poke(nmiVector+1, 0x03))
	for i, b := range []byte{0xa9, 0x42, 0x8d, 0x00, 0xfe, 0x4c, 0x05, 0x03} {
		test.DemandSuccess(t, machine.Poke(0x0300+uint16(i), b))
	}

	con.typeIn("*")
	machine.Step()
	machine.Step()
	test.ExpectEquality(t, con.out.String(), "B")
}
