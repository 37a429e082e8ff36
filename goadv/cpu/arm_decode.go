package cpu

// executeARM decodes and executes one 32-bit ARM instruction, following the
// priority order mandated by §4.2.2 (encodings that could otherwise overlap
// are tried in this exact order). Condition-failed instructions still cost
// one cycle (§4.2.3, §8).
func (c *CPU) executeARM(opcode uint32) int {
	cond := (opcode >> 28) & 0xF
	if !c.condition(cond) {
		return 1
	}

	switch {
	case opcode&0x0FFFFFF0 == 0x012FFF10:
		return c.armBranchExchange(opcode)

	case opcode&0x0E000000 == 0x08000000:
		return c.armBlockDataTransfer(opcode)

	case opcode&0x0E000000 == 0x0A000000:
		return c.armBranch(opcode)

	case opcode&0x0F000000 == 0x0F000000:
		return c.armSoftwareInterrupt(opcode)

	case opcode&0x0E000010 == 0x06000010:
		c.RaiseUndefined()
		return 1

	case opcode&0x0FB00FF0 == 0x01000090:
		return c.armSingleDataSwap(opcode)

	case opcode&0x0FC000F0 == 0x00000090:
		return c.armMultiply(opcode)

	case opcode&0x0F8000F0 == 0x00800090:
		return c.armMultiplyLong(opcode)

	case opcode&0x0E000090 == 0x00000090 && opcode&0x60 != 0:
		return c.armHalfwordSignedTransfer(opcode)

	case opcode&0x0C000000 == 0x04000000:
		return c.armSingleDataTransfer(opcode)

	case opcode&0x0FBF0FFF == 0x010F0000:
		return c.armMRS(opcode)

	case opcode&0x0FBFFFF0 == 0x0129F000, opcode&0x0FBFF000 == 0x0328F000:
		return c.armMSR(opcode)

	case opcode&0x0C000000 == 0x00000000:
		return c.armDataProcessing(opcode)

	default:
		decodeFault(opcode, false, c.regs.r[15])
		return 1
	}
}

// operand2 computes the shifter operand for a data-processing-style
// instruction, returning (value, shifterCarry). Bit 25 of the opcode selects
// between the 12-bit rotated immediate form and the register-shift form.
func (c *CPU) operand2(opcode uint32) (uint32, bool) {
	if opcode&(1<<25) != 0 {
		imm := opcode & 0xFF
		rot := (opcode >> 8) & 0xF * 2
		val, carry := barrelShift(shiftROR, imm, rot, c.flagC(), true)
		if rot == 0 {
			carry = c.flagC()
		}
		return val, carry
	}

	rm := opcode & 0xF
	kind := shiftType((opcode >> 5) & 0x3)
	value := c.regs.r[rm]

	if opcode&(1<<4) != 0 {
		// Register-specified shift amount, low byte of Rs.
		rs := (opcode >> 8) & 0xF
		amount := c.regs.r[rs] & 0xFF
		if rm == 15 {
			value += 4 // PC reads as +12 total when used as a shifted register op with register shift
		}
		return barrelShift(kind, value, amount, c.flagC(), false)
	}

	amount := (opcode >> 7) & 0x1F
	return barrelShift(kind, value, amount, c.flagC(), true)
}
