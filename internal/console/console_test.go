package console

import (
	"bytes"
	"testing"

	"gones/internal/audio"
	"gones/internal/joypad"
	"gones/internal/screen"
)

func buildNROM(prgBanks int) []byte {
	h := make([]byte, 16)
	copy(h, []byte("NES\x1A"))
	h[4] = byte(prgBanks)
	h[5] = 1 // 1 CHR bank
	var buf bytes.Buffer
	buf.Write(h)
	prg := make([]byte, prgBanks*16*1024)
	// reset vector at the very end of the last bank points back to 0x8000
	prg[len(prg)-4] = 0x00
	prg[len(prg)-3] = 0x80
	buf.Write(prg)
	buf.Write(make([]byte, 8*1024))
	return buf.Bytes()
}

func TestLoadThenResetInitializesCPU(t *testing.T) {
	c := New(screen.NoOp{}, audio.NoOp{})
	if err := c.Load(buildNROM(1)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if c.CPU.PC != 0x8000 {
		t.Fatalf("expected PC=0x8000 from reset vector, got %#x", c.CPU.PC)
	}
	if c.CPU.SP != 0xFD {
		t.Fatalf("expected SP=0xFD after reset, got %#x", c.CPU.SP)
	}
}

func TestResetBeforeLoadFails(t *testing.T) {
	c := New(screen.NoOp{}, audio.NoOp{})
	if err := c.Reset(); err == nil {
		t.Fatalf("expected error resetting before a cartridge is loaded")
	}
}

func TestClockAdvancesThreePPUDotsPerCPUCycle(t *testing.T) {
	c := New(screen.NoOp{}, audio.NoOp{})
	if err := c.Load(buildNROM(1)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	startCycle := c.PPU.ScanCycle()
	if err := c.Clock(); err != nil {
		t.Fatalf("Clock: %v", err)
	}
	gotDelta := (c.PPU.ScanCycle() - startCycle + 341) % 341
	if gotDelta != 3 {
		t.Fatalf("expected PPU to advance 3 dots per CPU clock, advanced %d", gotDelta)
	}
}

func TestPressReleaseButtonRoutesToCorrectJoypad(t *testing.T) {
	c := New(screen.NoOp{}, audio.NoOp{})
	c.PressButton(joypad.A, Joypad1)
	c.PressButton(joypad.Start, Joypad1)
	c.cpuBus.Joypad1.Write(1)
	c.cpuBus.Joypad1.Write(0)

	want := []uint8{1, 0, 0, 1, 0, 0, 0, 0}
	for i, exp := range want {
		got := c.cpuBus.Joypad1.Read()
		if got != exp {
			t.Fatalf("read %d: expected %d, got %d", i, exp, got)
		}
	}
	if v := c.cpuBus.Joypad1.Read(); v != 1 {
		t.Fatalf("expected ninth read to return 1, got %d", v)
	}
}

func TestStepAdvancesPPUByThreeTimesInstructionCycles(t *testing.T) {
	c := New(screen.NoOp{}, audio.NoOp{})
	if err := c.Load(buildNROM(1)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	startCycle := c.PPU.ScanCycle()
	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	// The PRG is zero-filled, so the instruction at the reset vector is
	// BRK (opcode 0x00), 7 cycles; expect a 21-dot PPU advance.
	gotDelta := (c.PPU.ScanCycle() - startCycle + 341) % 341
	if gotDelta != 21 {
		t.Fatalf("expected 21 PPU dots for a 7-cycle instruction, got %d", gotDelta)
	}
}
