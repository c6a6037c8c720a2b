package cpu

import "testing"

func TestZeroPageXWrapsWithinPage(t *testing.T) {
	c, bus := newTestCPU(t)
	c.X = 0x01
	bus.mem[0x00] = 0x55         // ($FF + X) wraps to $00, never spills to page 1
	bus.load(0x8000, 0xB5, 0xFF) // LDA $FF,X

	step(t, c)
	if c.A != 0x55 {
		t.Fatalf("expected zero-page-X wraparound read of 0x55, got %#x", c.A)
	}
}

func TestZeroPageYWrapsWithinPage(t *testing.T) {
	c, bus := newTestCPU(t)
	c.Y = 0x02
	bus.mem[0x01] = 0x77
	bus.load(0x8000, 0xB6, 0xFF) // LDX $FF,Y

	step(t, c)
	if c.X != 0x77 {
		t.Fatalf("expected zero-page-Y wraparound read of 0x77, got %#x", c.X)
	}
}

func TestAbsoluteAddressing(t *testing.T) {
	c, bus := newTestCPU(t)
	bus.mem[0x1234] = 0xAB
	bus.load(0x8000, 0xAD, 0x34, 0x12) // LDA $1234

	step(t, c)
	if c.A != 0xAB {
		t.Fatalf("expected absolute read of 0xAB, got %#x", c.A)
	}
}

func TestAbsoluteXPageCrossAddsExtraCycle(t *testing.T) {
	c, bus := newTestCPU(t)
	c.X = 0x01
	bus.mem[0x2000] = 0x11
	bus.load(0x8000, 0xBD, 0xFF, 0x1F) // LDA $1FFF,X -> $2000, crosses page

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !c.extraCycle {
		t.Fatalf("expected page-crossing extra cycle to be flagged")
	}
	if c.A != 0x11 {
		t.Fatalf("expected A=0x11, got %#x", c.A)
	}
}

func TestAbsoluteXNoPageCrossNoExtraCycle(t *testing.T) {
	c, bus := newTestCPU(t)
	c.X = 0x01
	bus.mem[0x1001] = 0x22
	bus.load(0x8000, 0xBD, 0x00, 0x10) // LDA $1000,X -> $1001, same page

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if c.extraCycle {
		t.Fatalf("expected no extra cycle when the page does not change")
	}
}

func TestAbsoluteYPageCross(t *testing.T) {
	c, bus := newTestCPU(t)
	c.Y = 0x01
	bus.mem[0x3000] = 0x33
	bus.load(0x8000, 0xB9, 0xFF, 0x2F) // LDA $2FFF,Y -> $3000

	if _, err := c.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if !c.extraCycle {
		t.Fatalf("expected page-crossing extra cycle for absolute,Y")
	}
}

func TestIndexedIndirectAddressing(t *testing.T) {
	c, bus := newTestCPU(t)
	c.X = 0x04
	bus.mem[0x24] = 0x00 // pointer low at ($20+X)
	bus.mem[0x25] = 0x30 // pointer high
	bus.mem[0x3000] = 0x9A
	bus.load(0x8000, 0xA1, 0x20) // LDA ($20,X)

	step(t, c)
	if c.A != 0x9A {
		t.Fatalf("expected indexed-indirect read of 0x9A, got %#x", c.A)
	}
}

func TestIndirectIndexedAddressing(t *testing.T) {
	c, bus := newTestCPU(t)
	c.Y = 0x10
	bus.mem[0x20] = 0x00 // pointer low
	bus.mem[0x21] = 0x30 // pointer high -> base $3000
	bus.mem[0x3010] = 0xCD
	bus.load(0x8000, 0xB1, 0x20) // LDA ($20),Y

	step(t, c)
	if c.A != 0xCD {
		t.Fatalf("expected indirect-indexed read of 0xCD, got %#x", c.A)
	}
}

func TestIndirectJMPPageWrapBug(t *testing.T) {
	c, bus := newTestCPU(t)
	bus.mem[0x30FF] = 0x00             // pointer low byte at the page boundary
	bus.mem[0x3000] = 0x80             // high byte wraps within the page, NOT 0x3100
	bus.mem[0x3100] = 0xFF             // decoy: must not be read
	bus.load(0x8000, 0x6C, 0xFF, 0x30) // JMP ($30FF)

	step(t, c)
	if c.PC != 0x8000 {
		t.Fatalf("expected PC=0x8000 from wrapped indirect fetch, got %#x", c.PC)
	}
}

func TestRelativeBranchForwardAndBackward(t *testing.T) {
	c, bus := newTestCPU(t)
	bus.load(0x8000,
		0x18,       // CLC
		0x90, 0x02, // BCC +2 -> skips the next instruction
		0xA9, 0xFF, // LDA #$FF (skipped)
		0xA9, 0x01, // LDA #$01 (landed here)
	)
	step(t, c) // CLC
	step(t, c) // BCC taken
	if c.PC != 0x8005 {
		t.Fatalf("expected branch to land at 0x8005, got %#x", c.PC)
	}
	step(t, c) // LDA #$01
	if c.A != 0x01 {
		t.Fatalf("expected A=0x01 after branch skipped the LDA #$FF, got %#x", c.A)
	}
}

func TestAccumulatorAddressing(t *testing.T) {
	c, bus := newTestCPU(t)
	c.A = 0x81
	bus.load(0x8000, 0x0A) // ASL A

	step(t, c)
	if c.A != 0x02 {
		t.Fatalf("expected ASL A to shift 0x81 into 0x02, got %#x", c.A)
	}
	if !c.GetFlag(FlagC) {
		t.Fatalf("expected carry set from bit 7 of 0x81")
	}
}
