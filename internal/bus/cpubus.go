// Package bus implements the CPU- and PPU-side address decoders that tie
// RAM, the PPU/APU register files, the joypads, and the active cartridge
// mapper into the two address spaces the console's clock domains see.
package bus

import "gones/internal/nerr"

// PPURegisters is the CPU-visible face of the PPU: the mirrored register
// file at 0x2000-0x3FFF plus the OAM DMA write path.
type PPURegisters interface {
	ReadRegister(addr uint16) (uint8, error)
	WriteRegister(addr uint16, v uint8) error
	WriteOAMByte(index uint8, v uint8) error
}

// APURegisters is the CPU-visible face of the APU translator.
type APURegisters interface {
	ReadRegister(addr uint16) (uint8, error)
	WriteRegister(addr uint16, v uint8) error
}

// Joypad is the minimal controller surface the CPU bus drives.
type Joypad interface {
	Read() uint8
	Write(v uint8)
}

// Mapper is the cartridge's CPU-side PRG interface.
type Mapper interface {
	ReadPRG(addr uint16) (uint8, error)
	WritePRG(addr uint16, v uint8) error
}

// CPUBus implements the routing table in spec §4.2: 2 KiB of mirrored RAM,
// PPU/APU registers, joypads, OAM DMA, and the cartridge's PRG path.
type CPUBus struct {
	RAM [0x0800]uint8

	PPU      PPURegisters
	APU      APURegisters
	Joypad1  Joypad
	Joypad2  Joypad
	Cart     Mapper

	// StealCycles is called when OAM DMA steals CPU cycles; wired to the
	// owning CPU's StealCycles by the console facade.
	StealCycles func(n int)

	lastBusValue uint8
	dmaCycleBase int
}

// NewCPUBus returns a CPUBus with power-up RAM contents, matching the
// non-zero pattern real NES hardware leaves behind (original_source seeds
// RAM the same way; a freshly-zeroed array is not representative).
func NewCPUBus() *CPUBus {
	b := &CPUBus{dmaCycleBase: 513}
	seedPowerUpRAM(b.RAM[:])
	return b
}

func seedPowerUpRAM(ram []uint8) {
	for i := range ram {
		if i&4 != 0 {
			ram[i] = 0xFF
		} else {
			ram[i] = 0x00
		}
	}
}

// Read decodes a CPU-visible address. Every address is routed to RAM, the
// PPU or APU register file, a joypad, or the cartridge, so reads never
// fail except where that device itself reports BusError; APU and mapper
// addresses with no backing register read as 0. lastBusValue records the
// most recent value read or written but is not returned by any read.
func (b *CPUBus) Read(addr uint16) (uint8, error) {
	var v uint8
	var err error
	switch {
	case addr < 0x2000:
		v = b.RAM[addr&0x07FF]
	case addr < 0x4000:
		v, err = b.PPU.ReadRegister(0x2000 + addr&0x0007)
	case addr == 0x4016:
		v = b.Joypad1.Read()
	case addr == 0x4017:
		v = b.Joypad2.Read()
	case addr < 0x4020:
		v, err = b.APU.ReadRegister(addr)
	case addr >= 0x4020:
		v, err = b.Cart.ReadPRG(addr)
	default:
		v = b.lastBusValue
	}
	if err != nil {
		return 0, err
	}
	b.lastBusValue = v
	return v, nil
}

// Write decodes a CPU-visible address for a write, dispatching OAM DMA on
// 0x4014 per spec §4.3.
func (b *CPUBus) Write(addr uint16, v uint8) error {
	b.lastBusValue = v
	switch {
	case addr < 0x2000:
		b.RAM[addr&0x07FF] = v
		return nil
	case addr < 0x4000:
		return b.PPU.WriteRegister(0x2000+addr&0x0007, v)
	case addr == 0x4014:
		return b.oamDMA(v)
	case addr == 0x4016:
		b.Joypad1.Write(v)
		return nil
	case addr == 0x4017:
		b.Joypad2.Write(v)
		return nil
	case addr < 0x4020:
		return b.APU.WriteRegister(addr, v)
	case addr >= 0x4020:
		return b.Cart.WritePRG(addr, v)
	default:
		return nerr.Newf(nerr.BusError, "write to undefined region $%04X", addr)
	}
}

// oamDMA copies 256 bytes from CPU page (page<<8) into OAM starting at
// whatever OAMADDR currently holds, and steals ~513 CPU cycles.
func (b *CPUBus) oamDMA(page uint8) error {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		v, err := b.Read(base + uint16(i))
		if err != nil {
			return err
		}
		if err := b.PPU.WriteOAMByte(uint8(i), v); err != nil {
			return err
		}
	}
	if b.StealCycles != nil {
		b.StealCycles(b.dmaCycleBase)
	}
	return nil
}
