// Package cpu implements a 6502-family interpreter: the 11 addressing
// modes, the official instruction set, and the undocumented opcodes that
// nestest-derived reference behavior depends on.
package cpu

import (
	"fmt"

	"gones/internal/nerr"
)

// Bus is the CPU's view of memory: everything not decoded locally is
// routed through here by the owning console.
type Bus interface {
	Read(addr uint16) (uint8, error)
	Write(addr uint16, v uint8) error
}

// Flag bit layout within the status byte P.
const (
	FlagC uint8 = 0x01
	FlagZ uint8 = 0x02
	FlagI uint8 = 0x04
	FlagD uint8 = 0x08
	FlagB uint8 = 0x10
	FlagU uint8 = 0x20
	FlagV uint8 = 0x40
	FlagN uint8 = 0x80
)

// AddressingMode tags how an instruction's operand is fetched, distinguishing
// the accumulator operand from a memory operand for shift/rotate opcodes.
type AddressingMode uint8

const (
	Implied AddressingMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Relative
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndexedIndirect // (zp,X)
	IndirectIndexed // (zp),Y
)

// Instruction is one row of the 256-entry opcode table.
type Instruction struct {
	Mnemonic string
	Opcode   uint8
	Bytes    uint8
	Cycles   uint8
	Mode     AddressingMode
}

// CPU is a MOS 6502 (Ricoh 2A03) interpreter driven one dot at a time by
// Clock, or one instruction at a time by Step.
type CPU struct {
	A, X, Y uint8
	SP      uint8
	PC      uint16
	P       uint8

	Bus Bus

	pendingCycles int
	addr          uint16
	data          uint8
	mode          AddressingMode
	implied       bool
	extraCycle    bool

	nmiPending bool
	irqPending bool

	instructions [256]*Instruction
}

// New returns a CPU wired to bus. Call Reset before the first Clock/Step.
func New(bus Bus) *CPU {
	c := &CPU{Bus: bus}
	c.initInstructions()
	return c
}

// Reset re-seeds CPU state from the reset vector: A=X=Y=0, SP=0xFD,
// P=0x24 (I|U), PC loaded from 0xFFFC/D, pending cycles set to 8.
func (c *CPU) Reset() error {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0xFD
	c.P = FlagI | FlagU
	pc, err := c.readWord(0xFFFC)
	if err != nil {
		return err
	}
	c.PC = pc
	c.pendingCycles = 8
	c.nmiPending = false
	c.irqPending = false
	return nil
}

// SetNMI raises a pending non-maskable interrupt, latched until the next
// instruction boundary.
func (c *CPU) SetNMI() { c.nmiPending = true }

// SetIRQ raises a pending maskable interrupt line. It is a no-op at the
// point of dispatch if the I flag is set.
func (c *CPU) SetIRQ(asserted bool) { c.irqPending = asserted }

// StealCycles accounts for cycles consumed by a bus-level side effect the
// CPU did not itself execute, such as OAM DMA.
func (c *CPU) StealCycles(n int) { c.pendingCycles += n }

// PendingCycles reports how many dots remain before the next fetch.
func (c *CPU) PendingCycles() int { return c.pendingCycles }

// GetFlag reports whether the given flag bit is set in P.
func (c *CPU) GetFlag(flag uint8) bool { return c.P&flag != 0 }

func (c *CPU) setFlag(flag uint8, v bool) {
	if v {
		c.P |= flag
	} else {
		c.P &^= flag
	}
}

func (c *CPU) setZN(v uint8) {
	c.setFlag(FlagZ, v == 0)
	c.setFlag(FlagN, v&0x80 != 0)
}

// Clock advances the CPU by exactly one dot. When no instruction is mid
// flight, a pending interrupt (if any) is serviced on its own; otherwise
// the next instruction is fetched, decoded, and executed atomically, and
// the cycle budget to burn as no-ops on subsequent calls is recorded.
func (c *CPU) Clock() error {
	if c.pendingCycles > 0 {
		c.pendingCycles--
		return nil
	}
	label, err := c.dispatchInterrupts()
	if err != nil {
		return err
	}
	if label != "" {
		return nil
	}
	cycles, _, err := c.executeOne()
	if err != nil {
		return err
	}
	c.pendingCycles = int(cycles) - 1
	return nil
}

// Step performs one full instruction (burning any cycles left over from a
// prior partial Clock sequence first) and returns its disassembly. A
// pending interrupt is serviced on its own Step, never in the same call as
// the instruction it interrupts.
func (c *CPU) Step() (string, error) {
	for c.pendingCycles > 0 {
		c.pendingCycles--
	}
	label, err := c.dispatchInterrupts()
	if err != nil {
		return "", err
	}
	if label != "" {
		return label, nil
	}
	cycles, disasm, err := c.executeOne()
	if err != nil {
		return "", err
	}
	c.pendingCycles = int(cycles) - 1
	return disasm, nil
}

// dispatchInterrupts services a pending NMI or IRQ, if any, returning its
// label ("NMI"/"IRQ") if one was dispatched, or "" otherwise. The caller
// must not also execute an instruction in the same tick: the interrupt's
// own pending-cycle budget (set by nmi/irq below) must not be overwritten
// by an instruction's.
func (c *CPU) dispatchInterrupts() (string, error) {
	if c.nmiPending {
		c.nmiPending = false
		return "NMI", c.nmi()
	}
	if c.irqPending && !c.GetFlag(FlagI) {
		return "IRQ", c.irq()
	}
	return "", nil
}

func (c *CPU) nmi() error {
	if err := c.pushWord(c.PC); err != nil {
		return err
	}
	if err := c.push(c.P&^FlagB | FlagU); err != nil {
		return err
	}
	c.setFlag(FlagI, true)
	pc, err := c.readWord(0xFFFA)
	if err != nil {
		return err
	}
	c.PC = pc
	c.pendingCycles += 8
	return nil
}

func (c *CPU) irq() error {
	if err := c.pushWord(c.PC); err != nil {
		return err
	}
	if err := c.push(c.P&^FlagB | FlagU); err != nil {
		return err
	}
	c.setFlag(FlagI, true)
	pc, err := c.readWord(0xFFFE)
	if err != nil {
		return err
	}
	c.PC = pc
	c.pendingCycles += 8
	return nil
}

func (c *CPU) executeOne() (cycles uint8, disasm string, err error) {
	pc := c.PC
	opcode, err := c.read(c.PC)
	if err != nil {
		return 0, "", err
	}
	c.PC++

	inst := c.instructions[opcode]
	if inst == nil {
		return 0, "", nerr.Newf(nerr.BusError, "unimplemented opcode $%02X at $%04X", opcode, pc)
	}

	c.mode = inst.Mode
	c.extraCycle = false

	operandBytes, err := c.fetchOperandBytes(inst)
	if err != nil {
		return 0, "", err
	}

	if err := c.resolveAddress(inst.Mode, operandBytes); err != nil {
		return 0, "", err
	}

	disasm = c.disassemble(pc, inst, operandBytes)

	if err := c.execute(inst); err != nil {
		return 0, "", err
	}

	cycles = inst.Cycles
	if c.extraCycle {
		cycles++
	}
	return cycles, disasm, nil
}

func (c *CPU) fetchOperandBytes(inst *Instruction) ([]uint8, error) {
	n := int(inst.Bytes) - 1
	if n <= 0 {
		return nil, nil
	}
	bytes := make([]uint8, n)
	for i := 0; i < n; i++ {
		b, err := c.read(c.PC)
		if err != nil {
			return nil, err
		}
		bytes[i] = b
		c.PC++
	}
	return bytes, nil
}

func (c *CPU) disassemble(pc uint16, inst *Instruction, operand []uint8) string {
	hex := ""
	for _, b := range operand {
		hex += fmt.Sprintf("%02X ", b)
	}
	return fmt.Sprintf("%04X  %02X %-6s%s  A:%02X X:%02X Y:%02X P:%02X SP:%02X",
		pc, inst.Opcode, hex, inst.Mnemonic, c.A, c.X, c.Y, c.P, c.SP)
}
