package cpu

import "testing"

// testBus is a flat 64KB RAM bus for exercising the CPU in isolation from
// any real cartridge/PPU wiring.
type testBus struct {
	mem [0x10000]uint8
}

func (b *testBus) Read(addr uint16) (uint8, error)  { return b.mem[addr], nil }
func (b *testBus) Write(addr uint16, v uint8) error { b.mem[addr] = v; return nil }

func (b *testBus) load(addr uint16, bytes ...uint8) {
	for i, v := range bytes {
		b.mem[addr+uint16(i)] = v
	}
}

// newTestCPU returns a CPU reset with PC at 0x8000, ready for a test to load
// a short program there and Step/Clock through it.
func newTestCPU(t *testing.T) (*CPU, *testBus) {
	t.Helper()
	bus := &testBus{}
	bus.mem[0xFFFC] = 0x00
	bus.mem[0xFFFD] = 0x80
	c := New(bus)
	if err := c.Reset(); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	return c, bus
}

func step(t *testing.T, c *CPU) string {
	t.Helper()
	disasm, err := c.Step()
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	return disasm
}
