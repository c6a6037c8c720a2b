// Package console wires the CPU, PPU, APU, cartridge, and joypads together
// behind the facade described in spec §4.7: new/load/reset/clock/step plus
// button press/release. All state is owned by the Console; the sinks are
// exclusive downstream consumers and are never called back into.
package console

import (
	"bytes"

	"gones/internal/apu"
	"gones/internal/audio"
	"gones/internal/bus"
	"gones/internal/cartridge"
	"gones/internal/cpu"
	"gones/internal/joypad"
	"gones/internal/nerr"
	"gones/internal/ppu"
	"gones/internal/screen"
)

// Which selects a joypad port.
type Which int

const (
	Joypad1 Which = iota
	Joypad2
)

// Console is the top-level emulator instance.
type Console struct {
	CPU *cpu.CPU
	PPU *ppu.PPU
	APU *apu.APU

	cpuBus *bus.CPUBus
	ppuBus *bus.PPUBus

	joypad1 *joypad.Joypad
	joypad2 *joypad.Joypad

	cart *cartridge.Cartridge
}

// New wires a Console around the given screen and audio sinks. No
// cartridge is loaded yet; Load must be called before Reset/Clock/Step.
func New(screenSink screen.Sink, audioSink audio.Sink) *Console {
	c := &Console{
		cpuBus:  bus.NewCPUBus(),
		ppuBus:  bus.NewPPUBus(),
		joypad1: joypad.New(),
		joypad2: joypad.New(),
	}

	c.PPU = ppu.New(c.ppuBus, screenSink)
	c.APU = apu.New(audioSink)

	c.cpuBus.PPU = c.PPU
	c.cpuBus.APU = c.APU
	c.cpuBus.Joypad1 = c.joypad1
	c.cpuBus.Joypad2 = c.joypad2

	c.CPU = cpu.New(c.cpuBus)
	c.cpuBus.StealCycles = c.CPU.StealCycles
	c.PPU.NMICallback = c.CPU.SetNMI

	return c
}

// Load parses an iNES image and replaces the cartridge. On failure, prior
// state (if any) is left untouched.
func (c *Console) Load(data []byte) error {
	cart, err := cartridge.Load(bytes.NewReader(data))
	if err != nil {
		return err
	}
	c.cart = cart
	c.cpuBus.Cart = cart
	c.ppuBus.Cart = cart
	c.ppuBus.Mirroring = cart.Mirroring()
	c.PPU.SetMirroring(cart.Mirroring())
	return nil
}

// Reset performs a power-on-equivalent reset of the CPU, PPU, APU, and
// cartridge mapper. Load must have been called first.
func (c *Console) Reset() error {
	if c.cart == nil {
		return nerr.New(nerr.InvalidArgument, "reset called before a cartridge was loaded")
	}
	c.cart.Reset()
	c.ppuBus.Mirroring = c.cart.Mirroring()
	c.PPU.SetMirroring(c.cart.Mirroring())
	c.PPU.Reset()
	c.APU.Reset()
	c.joypad1.Reset()
	c.joypad2.Reset()
	return c.CPU.Reset()
}

// Clock advances the CPU by one cycle and the PPU by three dots, the
// fixed 3:1 ratio spec §2 describes.
func (c *Console) Clock() error {
	if err := c.CPU.Clock(); err != nil {
		return err
	}
	for i := 0; i < 3; i++ {
		if err := c.PPU.Clock(); err != nil {
			return err
		}
	}
	return nil
}

// Step advances the CPU by one full instruction and the PPU by 3x that
// instruction's cycle count, returning the instruction's disassembly.
func (c *Console) Step() (string, error) {
	disasm, err := c.CPU.Step()
	if err != nil {
		return "", err
	}
	cycles := c.CPU.PendingCycles() + 1
	dots := 3 * cycles
	for i := 0; i < dots; i++ {
		if err := c.PPU.Clock(); err != nil {
			return "", err
		}
	}
	return disasm, nil
}

// PressButton sets a button bit on the selected joypad.
func (c *Console) PressButton(btn joypad.Button, which Which) {
	c.padFor(which).Press(btn)
}

// ReleaseButton clears a button bit on the selected joypad.
func (c *Console) ReleaseButton(btn joypad.Button, which Which) {
	c.padFor(which).Release(btn)
}

func (c *Console) padFor(which Which) *joypad.Joypad {
	if which == Joypad2 {
		return c.joypad2
	}
	return c.joypad1
}
