package bus

import (
	"gones/internal/cartridge"
	"testing"
)

type fakeChrMapper struct {
	chr [0x2000]uint8
}

func (m *fakeChrMapper) ReadCHR(addr uint16) (uint8, error)  { return m.chr[addr], nil }
func (m *fakeChrMapper) WriteCHR(addr uint16, v uint8) error { m.chr[addr] = v; return nil }

func newTestPPUBus(mirroring cartridge.Mirroring) *PPUBus {
	b := NewPPUBus()
	b.Cart = &fakeChrMapper{}
	b.Mirroring = mirroring
	return b
}

func TestHorizontalMirroringFoldsAsSpecified(t *testing.T) {
	b := newTestPPUBus(Horizontal)
	if err := b.Write(0x2000, 0xAA); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, mirror := range []uint16{0x2400} {
		v, err := b.Read(mirror)
		if err != nil {
			t.Fatalf("Read $%04X: %v", mirror, err)
		}
		if v != 0xAA {
			t.Fatalf("Horizontal mirror $%04X: expected 0xAA, got %#x", mirror, v)
		}
	}
	if err := b.Write(0x2800, 0xBB); err != nil {
		t.Fatalf("Write: %v", err)
	}
	v, err := b.Read(0x2C00)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v != 0xBB {
		t.Fatalf("Horizontal mirror $2C00: expected 0xBB, got %#x", v)
	}
}

func TestVerticalMirroringFoldsAsSpecified(t *testing.T) {
	b := newTestPPUBus(Vertical)
	if err := b.Write(0x2000, 0xCC); err != nil {
		t.Fatalf("Write: %v", err)
	}
	v, err := b.Read(0x2800)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v != 0xCC {
		t.Fatalf("Vertical mirror $2800: expected 0xCC, got %#x", v)
	}
}

func TestPaletteMirrorsUniversalBackgroundSlots(t *testing.T) {
	b := newTestPPUBus(Horizontal)
	if err := b.Write(0x3F00, 0x0F); err != nil {
		t.Fatalf("Write: %v", err)
	}
	v, err := b.Read(0x3F10)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v != 0x0F {
		t.Fatalf("expected $3F10 to mirror $3F00 (0x0F), got %#x", v)
	}
}

func TestCHRReadsRouteToCartridge(t *testing.T) {
	b := newTestPPUBus(Horizontal)
	cart := b.Cart.(*fakeChrMapper)
	cart.chr[0x0010] = 0x55
	v, err := b.Read(0x0010)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if v != 0x55 {
		t.Fatalf("expected CHR read to pass through to the mapper, got %#x", v)
	}
}
