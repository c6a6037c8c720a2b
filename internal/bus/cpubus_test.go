package bus

import "testing"

type fakePPURegisters struct {
	oam      [256]uint8
	oamBase  uint8
	regWrite map[uint16]uint8
}

func newFakePPU() *fakePPURegisters {
	return &fakePPURegisters{regWrite: make(map[uint16]uint8)}
}

func (p *fakePPURegisters) ReadRegister(addr uint16) (uint8, error) { return 0, nil }
func (p *fakePPURegisters) WriteRegister(addr uint16, v uint8) error {
	p.regWrite[addr] = v
	return nil
}
func (p *fakePPURegisters) WriteOAMByte(index uint8, v uint8) error {
	p.oam[p.oamBase+index] = v
	return nil
}

type fakeAPURegisters struct{}

func (fakeAPURegisters) ReadRegister(addr uint16) (uint8, error)  { return 0, nil }
func (fakeAPURegisters) WriteRegister(addr uint16, v uint8) error { return nil }

type fakeJoypad struct {
	written uint8
}

func (j *fakeJoypad) Read() uint8   { return 0 }
func (j *fakeJoypad) Write(v uint8) { j.written = v }

type fakeMapper struct {
	prg [0xC000]uint8
}

func (m *fakeMapper) ReadPRG(addr uint16) (uint8, error)  { return m.prg[addr-0x4020], nil }
func (m *fakeMapper) WritePRG(addr uint16, v uint8) error { m.prg[addr-0x4020] = v; return nil }

func newTestCPUBus() (*CPUBus, *fakePPURegisters) {
	b := NewCPUBus()
	ppu := newFakePPU()
	b.PPU = ppu
	b.APU = fakeAPURegisters{}
	b.Joypad1 = &fakeJoypad{}
	b.Joypad2 = &fakeJoypad{}
	b.Cart = &fakeMapper{}
	return b, ppu
}

func TestRAMIsMirroredAcrossFourWindows(t *testing.T) {
	b, _ := newTestCPUBus()
	if err := b.Write(0x0000, 0x42); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for _, mirror := range []uint16{0x0800, 0x1000, 0x1800} {
		v, err := b.Read(mirror)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if v != 0x42 {
			t.Fatalf("mirror $%04X: expected 0x42, got %#x", mirror, v)
		}
	}
}

func TestOAMDMACopiesPageAndStealsCycles(t *testing.T) {
	b, ppu := newTestCPUBus()
	for i := 0; i < 256; i++ {
		b.RAM[0x0600&0x07FF+i] = uint8(i)
	}
	stolen := 0
	b.StealCycles = func(n int) { stolen = n }

	if err := b.Write(0x4014, 0x06); err != nil {
		t.Fatalf("Write 0x4014: %v", err)
	}
	for i := 0; i < 256; i++ {
		if ppu.oam[i] != uint8(i) {
			t.Fatalf("oam[%d]: expected %d, got %d", i, i, ppu.oam[i])
		}
	}
	if stolen < 513 {
		t.Fatalf("expected at least 513 stolen cycles, got %d", stolen)
	}
}

func TestJoypadWriteRoutesToCorrectPort(t *testing.T) {
	b, _ := newTestCPUBus()
	if err := b.Write(0x4016, 1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := b.Write(0x4017, 1); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if b.Joypad1.(*fakeJoypad).written != 1 {
		t.Fatalf("expected joypad1 to receive the write")
	}
	if b.Joypad2.(*fakeJoypad).written != 1 {
		t.Fatalf("expected joypad2 to receive the write")
	}
}

func TestLastBusValueTracksMostRecentReadWrite(t *testing.T) {
	b, _ := newTestCPUBus()
	if err := b.Write(0x0000, 0x77); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if b.lastBusValue != 0x77 {
		t.Fatalf("expected lastBusValue 0x77 after write, got %#x", b.lastBusValue)
	}
	if _, err := b.Read(0x0001); err != nil { // RAM, zeroed by power-up pattern at this offset
		t.Fatalf("Read: %v", err)
	}
	if b.lastBusValue != 0x00 {
		t.Fatalf("expected lastBusValue to track the most recent read, got %#x", b.lastBusValue)
	}
}
