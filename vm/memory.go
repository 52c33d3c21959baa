package vm

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/aryanA101a/m6502-vm-go/logger"
)

// MemorySize is the size of the 16 bit address space.
const MemorySize = 1 << 16

// Physical memory map. Every region starts and ends on a page boundary.
//
//	$0000 - $0FFF  RAM    4096 bytes
//	$1000 - $1FFF  ROM    4096 bytes
//	$2000 - $FDFF  RAM   56832 bytes
//	$FE00 - $FEFF  I/O     256 bytes
//	$FF00 - $FFFF  RAM     256 bytes
const (
	RAM1Start = 0x0000
	RAM1Size  = 0x1000
	ROMStart  = 0x1000
	ROMSize   = 0x1000
	RAM2Start = 0x2000
	RAM2Size  = 0xFE00 - 0x2000
	IOStart   = 0xFE00
	IOSize    = 0x0100
	RAM3Start = 0xFF00
	RAM3Size  = 0x0100
)

const pageSize = 0x100

// Kind of memory backing a region.
type Kind int

const (
	RAM Kind = iota
	ROM
	IO
)

func (k Kind) String() string {
	switch k {
	case RAM:
		return "RAM"
	case ROM:
		return "ROM"
	case IO:
		return "IO"
	}
	return "undefined"
}

// Device is attached to an IO region. Offsets are relative to the start of
// the region.
type Device interface {
	Read(offset uint16, size int) uint32
	Write(offset uint16, value uint32, size int)
}

// Region is a slice of the physical address space.
type Region struct {
	Name   string
	Base   uint16
	Length int
	Kind   Kind

	backing  []byte
	device   Device
	readOnly bool
	loaded   bool
}

// End is the last address in the region.
func (r *Region) End() uint16 {
	return uint16(int(r.Base) + r.Length - 1)
}

// Contains returns true if addr is owned by the region.
func (r *Region) Contains(addr uint16) bool {
	return int(addr) >= int(r.Base) && int(addr) < int(r.Base)+r.Length
}

// ReadOnly is true for ROM once the boot image has been loaded.
func (r *Region) ReadOnly() bool {
	return r.readOnly
}

// Loaded is true for ROM once the boot image has been loaded.
func (r *Region) Loaded() bool {
	return r.loaded
}

func (r *Region) String() string {
	return fmt.Sprintf("%s %s $%04X-$%04X (%d bytes)", r.Name, r.Kind, r.Base, r.End(), r.Length)
}

// RegionInfo describes a region without its contents.
type RegionInfo struct {
	Name     string
	Kind     string
	Base     uint16
	End      uint16
	Length   int
	ReadOnly bool
	Loaded   bool
}

// AddressSpace is the physical address space of the machine. Regions are
// created once by newAddressSpace() and accesses are routed by address only.
//
// AddressSpace satisfies the Memory interface of the go6502 cpu package.
type AddressSpace struct {
	regions []*Region

	// owning region for each page of memory
	pages [MemorySize / pageSize]*Region

	rom *Region
	log *logger.Logger
}

func newAddressSpace(dev Device, log *logger.Logger) (*AddressSpace, error) {
	mem := &AddressSpace{log: log}

	mem.rom = &Region{Name: "6502.rom", Base: ROMStart, Length: ROMSize, Kind: ROM, backing: make([]byte, ROMSize)}

	for _, r := range []*Region{
		{Name: "6502.ram1", Base: RAM1Start, Length: RAM1Size, Kind: RAM, backing: make([]byte, RAM1Size)},
		mem.rom,
		{Name: "6502.ram2", Base: RAM2Start, Length: RAM2Size, Kind: RAM, backing: make([]byte, RAM2Size)},
		{Name: "6502.io", Base: IOStart, Length: IOSize, Kind: IO, device: dev},
		{Name: "6502.ram3", Base: RAM3Start, Length: RAM3Size, Kind: RAM, backing: make([]byte, RAM3Size)},
	} {
		if err := mem.insert(r); err != nil {
			return nil, err
		}
	}

	for p, r := range mem.pages {
		if r == nil {
			return nil, errors.Errorf("memory: page $%02X has no region", p)
		}
	}

	return mem, nil
}

// insert region into the address space. Regions must be page aligned and must
// not overlap with a region that has already been inserted.
func (mem *AddressSpace) insert(r *Region) error {
	if r.Base%pageSize != 0 || r.Length%pageSize != 0 || r.Length == 0 {
		return errors.Errorf("memory: %s is not page aligned", r)
	}
	if int(r.Base)+r.Length > MemorySize {
		return errors.Errorf("memory: %s extends beyond address space", r)
	}
	if r.Kind == IO && r.device == nil {
		return errors.Errorf("memory: %s has no device", r)
	}

	first := int(r.Base) / pageSize
	last := first + r.Length/pageSize
	for p := first; p < last; p++ {
		if o := mem.pages[p]; o != nil {
			return errors.Errorf("memory: %s overlaps %s", r, o)
		}
	}
	for p := first; p < last; p++ {
		mem.pages[p] = r
	}

	mem.regions = append(mem.regions, r)
	return nil
}

// Region returns the region that owns addr.
func (mem *AddressSpace) Region(addr uint16) *Region {
	return mem.pages[addr/pageSize]
}

// Regions returns the regions in the order they were inserted.
func (mem *AddressSpace) Regions() []*Region {
	return mem.regions
}

// Layout describes each region of the address space.
func (mem *AddressSpace) Layout() []RegionInfo {
	l := make([]RegionInfo, 0, len(mem.regions))
	for _, r := range mem.regions {
		l = append(l, RegionInfo{
			Name:     r.Name,
			Kind:     r.Kind.String(),
			Base:     r.Base,
			End:      r.End(),
			Length:   r.Length,
			ReadOnly: r.readOnly,
			Loaded:   r.loaded,
		})
	}
	return l
}

// Read a byte from the address space. Reads from the IO region are passed to
// the attached device.
func (mem *AddressSpace) Read(addr uint16) uint8 {
	r := mem.Region(addr)
	offset := addr - r.Base
	if r.Kind == IO {
		return uint8(r.device.Read(offset, 1))
	}
	return r.backing[offset]
}

// Write a byte to the address space. Writes to ROM after the boot image has
// been loaded are dropped.
func (mem *AddressSpace) Write(addr uint16, value uint8) {
	r := mem.Region(addr)
	offset := addr - r.Base
	switch {
	case r.Kind == IO:
		r.device.Write(offset, uint32(value), 1)
	case r.readOnly:
		mem.log.Logf("memory", "write to ROM at 0x%04x ignored", addr)
	default:
		r.backing[offset] = value
	}
}

// Peek reads memory without side effects. The IO region can't be peeked.
func (mem *AddressSpace) Peek(addr uint16) (uint8, error) {
	r := mem.Region(addr)
	if r.Kind == IO {
		return 0, errors.Errorf("memory: cannot peek IO address 0x%04x", addr)
	}
	return r.backing[addr-r.Base], nil
}

// Poke writes memory without side effects, ignoring ROM protection. The IO
// region can't be poked.
func (mem *AddressSpace) Poke(addr uint16, value uint8) error {
	r := mem.Region(addr)
	if r.Kind == IO {
		return errors.Errorf("memory: cannot poke IO address 0x%04x", addr)
	}
	r.backing[addr-r.Base] = value
	return nil
}

// LoadBootImage copies the file at path into ROM and then marks ROM as read
// only. The image must not be larger than ROM.
func (mem *AddressSpace) LoadBootImage(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &BootImageError{Path: path, Err: err}
	}

	if len(data) > mem.rom.Length {
		return &BootImageError{
			Path: path,
			Err:  errors.Wrapf(ErrBootImageTooLarge, "%d bytes at $%04X", len(data), mem.rom.Base),
		}
	}

	for i := range mem.rom.backing {
		mem.rom.backing[i] = 0
	}
	copy(mem.rom.backing, data)
	mem.rom.loaded = true
	mem.rom.readOnly = true

	mem.log.Logf("memory", "loaded %d bytes from %s at $%04X", len(data), path, mem.rom.Base)

	return nil
}

// LoadByte implements the go6502 cpu.Memory interface.
func (mem *AddressSpace) LoadByte(addr uint16) byte {
	return mem.Read(addr)
}

// LoadBytes implements the go6502 cpu.Memory interface.
func (mem *AddressSpace) LoadBytes(addr uint16, b []byte) {
	for i := range b {
		b[i] = mem.Read(addr + uint16(i))
	}
}

// LoadAddress reads a little-endian address.
func (mem *AddressSpace) LoadAddress(addr uint16) uint16 {
	return uint16(mem.Read(addr)) | uint16(mem.Read(addr+1))<<8
}

// StoreAddress writes a little-endian address, low byte first.
func (mem *AddressSpace) StoreAddress(addr uint16, v uint16) {
	mem.Write(addr, uint8(v))
	mem.Write(addr+1, uint8(v>>8))
}

// StoreByte implements the go6502 cpu.Memory interface.
func (mem *AddressSpace) StoreByte(addr uint16, v byte) {
	mem.Write(addr, v)
}

// StoreBytes implements the go6502 cpu.Memory interface.
func (mem *AddressSpace) StoreBytes(addr uint16, b []byte) {
	for i, v := range b {
		mem.Write(addr+uint16(i), v)
	}
}
