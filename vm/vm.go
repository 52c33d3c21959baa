// Package vm implements the hardware platform around a MOS 6502: the physical
// address space, the memory mapped I/O ports and the translation of console
// input and timer ticks into interrupt requests.
//
// The CPU and the console are collaborators. The CPU is reached through the
// Processor interface and the console through the Console interface. Both can
// be replaced with Config.
package vm

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/aryanA101a/m6502-vm-go/logger"
)

// DefaultBootImage is loaded into ROM when Config.BootImage is empty.
const DefaultBootImage = "6502_bios.rom"

// DefaultTimerPeriod is the host time between timer steps.
const DefaultTimerPeriod = 10 * time.Millisecond

// Config for a new machine. Console is required.
type Config struct {
	BootImage          string
	Console            Console
	Processor          Processor
	TimerPeriod        time.Duration
	KeyboardBufferSize int
	Log                *logger.Logger
}

// VM is a single machine. There is no state shared between machines.
type VM struct {
	memory   *AddressSpace
	io       *ioDispatcher
	keyboard *keyboard
	timer    *Timer
	bridge   *Bridge
	cpu      Processor
	console  Console
	period   time.Duration
	log      *logger.Logger
}

// inputReader is implemented by consoles that need a goroutine to collect
// input, such as Terminal.
type inputReader interface {
	ReadInput(ctx context.Context) error
}

// NewVM creates the machine and loads the boot image. A *BootImageError is
// returned if the boot image can't be loaded, in which case the machine must
// not be used.
func NewVM(cfg Config) (*VM, error) {
	if cfg.Console == nil {
		return nil, errors.New("vm: no console")
	}
	if cfg.BootImage == "" {
		cfg.BootImage = DefaultBootImage
	}
	if cfg.TimerPeriod <= 0 {
		cfg.TimerPeriod = DefaultTimerPeriod
	}
	if cfg.Log == nil {
		cfg.Log = logger.New(0)
	}

	vm := &VM{
		console: cfg.Console,
		period:  cfg.TimerPeriod,
		log:     cfg.Log,
	}

	vm.keyboard = newKeyboard(cfg.KeyboardBufferSize, vm.log)
	vm.timer = NewTimer()
	vm.io = newIODispatcher(vm.console, vm.keyboard, vm.timer, vm.log)

	var err error
	vm.memory, err = newAddressSpace(vm.io, vm.log)
	if err != nil {
		return nil, err
	}

	if err := vm.memory.LoadBootImage(cfg.BootImage); err != nil {
		return nil, err
	}

	vm.cpu = cfg.Processor
	if vm.cpu == nil {
		vm.cpu = newCore6502(vm.memory, vm.log)
	}
	vm.cpu.SetPC(ROMStart)

	vm.bridge = newBridge(vm.cpu, vm.keyboard, vm.log)
	vm.console.Subscribe(vm.bridge)
	vm.timer.Subscribe(vm.bridge)

	vm.log.Logf("vm", "machine ready, execution starts at $%04X", vm.cpu.PC())

	return vm, nil
}

// Memory returns the physical address space.
func (vm *VM) Memory() *AddressSpace {
	return vm.memory
}

// Timer returns the timer peripheral.
func (vm *VM) Timer() *Timer {
	return vm.timer
}

// Processor returns the CPU.
func (vm *VM) Processor() Processor {
	return vm.cpu
}

// Bridge returns the interrupt bridge subscribed to the console and timer.
func (vm *VM) Bridge() *Bridge {
	return vm.bridge
}

// Layout describes the regions of the address space.
func (vm *VM) Layout() []RegionInfo {
	return vm.memory.Layout()
}

// Peek reads memory without side effects.
func (vm *VM) Peek(addr uint16) (uint8, error) {
	return vm.memory.Peek(addr)
}

// Poke writes memory without side effects.
func (vm *VM) Poke(addr uint16, value uint8) error {
	return vm.memory.Poke(addr, value)
}

// Step delivers pending console input and then steps the CPU once.
func (vm *VM) Step() {
	vm.console.Service()
	vm.cpu.Step()
}

// Run the machine until the context is cancelled. Input, timer and CPU are
// all serviced from the one loop. Consoles that collect input in the
// background are run alongside it.
func (vm *VM) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	if r, ok := vm.console.(inputReader); ok {
		g.Go(func() error {
			return r.ReadInput(ctx)
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(vm.period)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				vm.log.Log("vm", "stopped")
				return nil
			case <-ticker.C:
				vm.timer.Step()
			default:
			}
			vm.Step()
		}
	})

	return g.Wait()
}
