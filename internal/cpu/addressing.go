package cpu

// resolveAddress computes the effective address (or, for Accumulator/
// Implied, marks the operand as implied) from the bytes already consumed
// from the instruction stream. It never advances PC further; any extra bus
// traffic here is pointer dereferencing, not instruction fetch.
func (c *CPU) resolveAddress(mode AddressingMode, operand []uint8) error {
	c.implied = false
	switch mode {
	case Implied:
		c.implied = true

	case Accumulator:
		c.implied = true
		c.data = c.A

	case Immediate:
		c.addr = c.PC - 1

	case ZeroPage:
		c.addr = uint16(operand[0])

	case ZeroPageX:
		c.addr = uint16(operand[0]+c.X) & 0x00FF

	case ZeroPageY:
		c.addr = uint16(operand[0]+c.Y) & 0x00FF

	case Relative:
		offset := int8(operand[0])
		c.addr = uint16(int32(c.PC) + int32(offset))

	case Absolute:
		c.addr = uint16(operand[1])<<8 | uint16(operand[0])

	case AbsoluteX:
		base := uint16(operand[1])<<8 | uint16(operand[0])
		c.addr = base + uint16(c.X)
		c.extraCycle = pageCrossed(base, c.addr)

	case AbsoluteY:
		base := uint16(operand[1])<<8 | uint16(operand[0])
		c.addr = base + uint16(c.Y)
		c.extraCycle = pageCrossed(base, c.addr)

	case Indirect:
		ptr := uint16(operand[1])<<8 | uint16(operand[0])
		lo, err := c.read(ptr)
		if err != nil {
			return err
		}
		// Documented 6502 bug: the high byte read wraps within the page
		// when the pointer's low byte is 0xFF.
		hiAddr := (ptr & 0xFF00) | uint16(uint8(ptr)+1)
		hi, err := c.read(hiAddr)
		if err != nil {
			return err
		}
		c.addr = uint16(hi)<<8 | uint16(lo)

	case IndexedIndirect:
		zp := operand[0] + c.X
		lo, err := c.read(uint16(zp))
		if err != nil {
			return err
		}
		hi, err := c.read(uint16(zp + 1))
		if err != nil {
			return err
		}
		c.addr = uint16(hi)<<8 | uint16(lo)

	case IndirectIndexed:
		zp := operand[0]
		lo, err := c.read(uint16(zp))
		if err != nil {
			return err
		}
		hi, err := c.read(uint16(zp + 1))
		if err != nil {
			return err
		}
		base := uint16(hi)<<8 | uint16(lo)
		c.addr = base + uint16(c.Y)
		c.extraCycle = pageCrossed(base, c.addr)
	}
	return nil
}

func pageCrossed(a, b uint16) bool {
	return a&0xFF00 != b&0xFF00
}

// operand reads the effective operand: A for implied/accumulator mode,
// otherwise the byte at the resolved address.
func (c *CPU) operand() (uint8, error) {
	if c.implied {
		return c.A, nil
	}
	return c.read(c.addr)
}

// storeResult writes v back to A (implied/accumulator mode) or to the
// resolved address.
func (c *CPU) storeResult(v uint8) error {
	if c.implied {
		c.A = v
		return nil
	}
	return c.write(c.addr, v)
}

func (c *CPU) read(addr uint16) (uint8, error) {
	return c.Bus.Read(addr)
}

func (c *CPU) write(addr uint16, v uint8) error {
	return c.Bus.Write(addr, v)
}

func (c *CPU) readWord(addr uint16) (uint16, error) {
	lo, err := c.read(addr)
	if err != nil {
		return 0, err
	}
	hi, err := c.read(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

func (c *CPU) push(v uint8) error {
	err := c.write(0x0100+uint16(c.SP), v)
	c.SP--
	return err
}

func (c *CPU) pop() (uint8, error) {
	c.SP++
	return c.read(0x0100 + uint16(c.SP))
}

func (c *CPU) pushWord(v uint16) error {
	if err := c.push(uint8(v >> 8)); err != nil {
		return err
	}
	return c.push(uint8(v))
}

func (c *CPU) popWord() (uint16, error) {
	lo, err := c.pop()
	if err != nil {
		return 0, err
	}
	hi, err := c.pop()
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}
