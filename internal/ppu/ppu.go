// Package ppu implements the picture processing unit: the scanline/cycle
// state machine, the mirrored $2000-$2007 register file, OAM, and the
// background/sprite renderer that drives a screen.Sink.
package ppu

import (
	"gones/internal/cartridge"
	"gones/internal/screen"
)

// Bus is the PPU's view of its address space: CHR via the cartridge
// mapper, nametable VRAM, and palette RAM.
type Bus interface {
	Read(addr uint16) (uint8, error)
	Write(addr uint16, v uint8) error
}

const (
	ctrlNMIEnable    = 0x80
	ctrlSpriteHeight = 0x20
	ctrlBGTable      = 0x10
	ctrlSpriteTable  = 0x08
	ctrlIncrement32  = 0x04

	maskGreyscale = 0x01
	maskBGEnable  = 0x08
	maskSprEnable = 0x10

	statusVBlank   = 0x80
	statusSprite0  = 0x40
	statusOverflow = 0x20
)

// PPU is the 2C02-equivalent state machine described in spec §4.3.
type PPU struct {
	Bus       Bus
	Sink      screen.Sink
	Mirroring cartridge.Mirroring

	NMICallback func()

	ctrl   uint8
	mask   uint8
	status uint8

	oamAddr uint8
	oam     [256]uint8

	scrollX, scrollY uint8
	writeLatch       bool
	addr             uint16
	readBuffer       uint8

	scanLine  int
	scanCycle int
}

// New returns a PPU wired to bus and sink. Mirroring must be set once a
// cartridge is loaded (see SetMirroring).
func New(bus Bus, sink screen.Sink) *PPU {
	p := &PPU{Bus: bus, Sink: sink}
	p.Reset()
	return p
}

// SetMirroring updates the nametable mirroring mode, called by the console
// facade whenever a cartridge is loaded.
func (p *PPU) SetMirroring(m cartridge.Mirroring) { p.Mirroring = m }

// Reset restores power-up register state. OAM contents are cleared for
// determinism even though real hardware leaves them untouched across reset.
func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.status = 0
	p.oamAddr = 0
	for i := range p.oam {
		p.oam[i] = 0
	}
	p.scrollX, p.scrollY = 0, 0
	p.writeLatch = false
	p.addr = 0
	p.readBuffer = 0
	p.scanLine = -1
	p.scanCycle = 0
}

// ScanLine and ScanCycle expose current state for debugging/tests.
func (p *PPU) ScanLine() int  { return p.scanLine }
func (p *PPU) ScanCycle() int { return p.scanCycle }

// WriteOAMByte writes OAM at (OAMADDR+offset)&0xFF, the addressing OAM DMA
// uses per spec §4.2.
func (p *PPU) WriteOAMByte(offset uint8, v uint8) error {
	p.oam[(p.oamAddr+offset)&0xFF] = v
	return nil
}

// ReadRegister implements the CPU-visible $2000-$2007 register file.
func (p *PPU) ReadRegister(addr uint16) (uint8, error) {
	switch addr {
	case 0x2002:
		v := p.status
		p.status &^= statusVBlank
		p.writeLatch = false
		return v, nil
	case 0x2004:
		return p.oam[p.oamAddr], nil
	case 0x2007:
		return p.readData()
	default:
		// write-only registers read back as open bus; approximate with
		// the low 5 bits of status, matching the common hardware quirk.
		return p.status & 0x1F, nil
	}
}

// WriteRegister implements the CPU-visible $2000-$2007 register file.
func (p *PPU) WriteRegister(addr uint16, v uint8) error {
	switch addr {
	case 0x2000:
		p.ctrl = v
	case 0x2001:
		p.mask = v
	case 0x2002:
		// read-only
	case 0x2003:
		p.oamAddr = v
	case 0x2004:
		p.oam[p.oamAddr] = v
		p.oamAddr++
	case 0x2005:
		if !p.writeLatch {
			p.scrollX = v
		} else {
			p.scrollY = v
		}
		p.writeLatch = !p.writeLatch
	case 0x2006:
		if !p.writeLatch {
			p.addr = (p.addr & 0x00FF) | (uint16(v)&0x3F)<<8
		} else {
			p.addr = (p.addr & 0xFF00) | uint16(v)
		}
		p.writeLatch = !p.writeLatch
	case 0x2007:
		return p.writeData(v)
	}
	return nil
}

func (p *PPU) addrIncrement() uint16 {
	if p.ctrl&ctrlIncrement32 != 0 {
		return 32
	}
	return 1
}

// readData implements the $2007 read-buffer protocol: VRAM reads return
// the previous buffer contents and refill it, while palette reads return
// directly.
func (p *PPU) readData() (uint8, error) {
	data, err := p.Bus.Read(p.addr & 0x3FFF)
	if err != nil {
		return 0, err
	}
	var result uint8
	if p.addr&0x3FFF >= 0x3F00 {
		result = data
	} else {
		result = p.readBuffer
		p.readBuffer = data
	}
	p.addr = (p.addr + p.addrIncrement()) & 0x3FFF
	return result, nil
}

func (p *PPU) writeData(v uint8) error {
	if err := p.Bus.Write(p.addr&0x3FFF, v); err != nil {
		return err
	}
	p.addr = (p.addr + p.addrIncrement()) & 0x3FFF
	return nil
}

// renderingEnabled reports whether background or sprite rendering is on.
func (p *PPU) renderingEnabled() bool {
	return p.mask&(maskBGEnable|maskSprEnable) != 0
}

// Clock advances the PPU by one dot per spec §4.3: evaluates the coarse
// sprite-0-hit heuristic on the current visible dot, advances (scanLine,
// scanCycle), and on reaching (241,1) raises VBLANK/NMI and renders the
// full frame to the sink; on reaching (-1,1) it clears VBLANK/sprite-0.
func (p *PPU) Clock() error {
	if p.scanLine >= 0 && p.scanLine < 240 && p.renderingEnabled() {
		if p.scanLine == int(p.oam[0]) && int(p.oam[3]) <= p.scanCycle {
			p.status |= statusSprite0
		}
	}

	p.scanCycle++
	if p.scanCycle > 340 {
		p.scanCycle = 0
		p.scanLine++
		if p.scanLine > 260 {
			p.scanLine = -1
		}
	}

	if p.scanLine == 241 && p.scanCycle == 1 {
		p.status |= statusVBlank
		if err := p.renderFrame(); err != nil {
			return err
		}
		if err := p.Sink.VBlank(); err != nil {
			return err
		}
		if p.ctrl&ctrlNMIEnable != 0 && p.NMICallback != nil {
			p.NMICallback()
		}
	}

	if p.scanLine == -1 && p.scanCycle == 1 {
		p.status &^= statusVBlank | statusSprite0 | statusOverflow
	}
	return nil
}
