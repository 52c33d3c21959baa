package vm

import (
	gocpu "github.com/beevik/go6502/cpu"

	"github.com/aryanA101a/m6502-vm-go/logger"
)

// Processor is the CPU core driven by the machine.
type Processor interface {
	Raiser
	SetPC(addr uint16)
	PC() uint16
	Step()
}

var _ gocpu.Memory = (*AddressSpace)(nil)

// 6502 vectors and stack
const (
	nmiVector   uint16 = 0xFFFA
	resetVector uint16 = 0xFFFC
	irqVector   uint16 = 0xFFFE
	stackPage   uint16 = 0x0100
)

// core6502 is an NMOS 6502 from the go6502 package with interrupt lines.
//
// A raised line is latched until it is serviced, which happens before the next
// instruction. Reset has priority over NMI and NMI over IRQ. IRQ stays latched
// while the interrupt disable flag is set. Raising a line that is already
// latched has no further effect.
type core6502 struct {
	cpu     *gocpu.CPU
	mem     gocpu.Memory
	pending [lineCount]bool
	log     *logger.Logger
}

func newCore6502(mem gocpu.Memory, log *logger.Logger) *core6502 {
	return &core6502{
		cpu: gocpu.NewCPU(gocpu.NMOS, mem),
		mem: mem,
		log: log,
	}
}

func (c *core6502) SetPC(addr uint16) {
	c.cpu.SetPC(addr)
}

func (c *core6502) PC() uint16 {
	return c.cpu.Reg.PC
}

func (c *core6502) Raise(line Line) {
	c.pending[line] = true
}

func (c *core6502) Step() {
	c.service()
	c.cpu.Step()
}

func (c *core6502) service() {
	switch {
	case c.pending[Reset]:
		c.pending = [lineCount]bool{}
		c.cpu.Reg.SP = 0xfd
		c.cpu.Reg.InterruptDisable = true
		c.cpu.SetPC(c.mem.LoadAddress(resetVector))
		c.log.Logf("cpu", "reset to $%04X", c.cpu.Reg.PC)

	case c.pending[NMI]:
		c.pending[NMI] = false
		c.interrupt(nmiVector)

	case c.pending[IRQ] && !c.cpu.Reg.InterruptDisable:
		c.pending[IRQ] = false
		c.interrupt(irqVector)
	}
}

// interrupt saves the program counter and status on the stack and jumps
// through the vector.
func (c *core6502) interrupt(vector uint16) {
	pc := c.cpu.Reg.PC
	c.push(uint8(pc >> 8))
	c.push(uint8(pc))
	c.push(c.cpu.Reg.SavePS(false))
	c.cpu.Reg.InterruptDisable = true
	c.cpu.SetPC(c.mem.LoadAddress(vector))
}

func (c *core6502) push(v uint8) {
	c.mem.StoreByte(stackPage|uint16(c.cpu.Reg.SP), v)
	c.cpu.Reg.SP--
}
