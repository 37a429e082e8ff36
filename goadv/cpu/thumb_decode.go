package cpu

// executeThumb decodes and executes one 16-bit Thumb instruction, following
// the format priority listed in §4.2.2. Thumb has no per-instruction
// condition field except format 16 (conditional branch), which carries its
// own 4-bit condition.
func (c *CPU) executeThumb(opcode uint16) int {
	top5 := opcode >> 11
	top8 := opcode >> 8

	switch {
	case top8 == 0b11011111: // SWI
		return c.thumbSoftwareInterrupt(opcode)

	case top5 == 0b11100: // unconditional branch
		return c.thumbUnconditionalBranch(opcode)

	case top8>>4 == 0b1101 && top8 != 0b11011111: // conditional branch
		return c.thumbConditionalBranch(opcode)

	case opcode>>12 == 0b1100: // multiple load/store
		return c.thumbMultipleLoadStore(opcode)

	case opcode>>12 == 0b1111: // long branch with link
		return c.thumbLongBranchLink(opcode)

	case top8 == 0b10110000: // add offset to SP
		return c.thumbAddOffsetToSP(opcode)

	case opcode>>12 == 0b1011 && (opcode>>9)&0x3 == 0b10: // push/pop
		return c.thumbPushPop(opcode)

	case opcode>>12 == 0b1000: // load/store halfword
		return c.thumbLoadStoreHalfword(opcode)

	case opcode>>12 == 0b1001: // SP-relative load/store
		return c.thumbSPRelativeLoadStore(opcode)

	case opcode>>12 == 0b1010: // load address
		return c.thumbLoadAddress(opcode)

	case opcode>>13 == 0b011: // load/store immediate offset
		return c.thumbLoadStoreImmOffset(opcode)

	case opcode>>12 == 0b0101 && (opcode>>9)&1 == 0: // load/store register offset
		return c.thumbLoadStoreRegOffset(opcode)

	case opcode>>12 == 0b0101 && (opcode>>9)&1 == 1: // sign-extended byte/halfword
		return c.thumbLoadStoreSignExtended(opcode)

	case opcode>>11 == 0b01001: // PC-relative load
		return c.thumbPCRelativeLoad(opcode)

	case opcode>>10 == 0b010001: // hi register ops / BX
		return c.thumbHiRegisterOps(opcode)

	case opcode>>10 == 0b010000: // ALU operations
		return c.thumbALU(opcode)

	case opcode>>13 == 0b001: // move/compare/add/sub immediate
		return c.thumbImmediateOp(opcode)

	case opcode>>11 == 0b00011: // add/subtract
		return c.thumbAddSubtract(opcode)

	case opcode>>13 == 0b000: // move shifted register
		return c.thumbMoveShiftedRegister(opcode)

	default:
		decodeFault(uint32(opcode), true, uint32(c.regs.r[15]))
		return 1
	}
}
