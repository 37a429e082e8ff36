package cpu

import "github.com/kestrelcore/goadv/goadv/bit"

// --- Format 1: move shifted register --------------------------------------

func (c *CPU) thumbMoveShiftedRegister(opcode uint16) int {
	op := (opcode >> 11) & 0x3
	offset := uint32((opcode >> 6) & 0x1F)
	rs := (opcode >> 3) & 0x7
	rd := opcode & 0x7

	var kind shiftType
	switch op {
	case 0:
		kind = shiftLSL
	case 1:
		kind = shiftLSR
	case 2:
		kind = shiftASR
	}

	value, carry := barrelShift(kind, c.regs.r[rs], offset, c.flagC(), true)
	c.regs.r[rd] = value
	c.setNZ(value)
	c.setFlag(flagC, carry)
	return 1
}

// --- Format 2: add/subtract -------------------------------------------

func (c *CPU) thumbAddSubtract(opcode uint16) int {
	immediate := opcode&(1<<10) != 0
	sub := opcode&(1<<9) != 0
	field := uint32((opcode >> 6) & 0x7)
	rs := (opcode >> 3) & 0x7
	rd := opcode & 0x7

	var operand uint32
	if immediate {
		operand = field
	} else {
		operand = c.regs.r[field]
	}

	var result uint32
	if sub {
		result = c.subWithFlags(c.regs.r[rs], operand, 0, true)
	} else {
		result = c.addWithFlags(c.regs.r[rs], operand, 0, true)
	}
	c.regs.r[rd] = result
	return 1
}

// --- Format 3: move/compare/add/sub immediate ---------------------------

func (c *CPU) thumbImmediateOp(opcode uint16) int {
	op := (opcode >> 11) & 0x3
	rd := (opcode >> 8) & 0x7
	imm := uint32(opcode & 0xFF)

	switch op {
	case 0: // MOV
		c.regs.r[rd] = imm
		c.setNZ(imm)
		c.setFlag(flagC, c.flagC())
	case 1: // CMP
		c.subWithFlags(c.regs.r[rd], imm, 0, true)
	case 2: // ADD
		c.regs.r[rd] = c.addWithFlags(c.regs.r[rd], imm, 0, true)
	case 3: // SUB
		c.regs.r[rd] = c.subWithFlags(c.regs.r[rd], imm, 0, true)
	}
	return 1
}

// --- Format 4: ALU operations ---------------------------------------------

func (c *CPU) thumbALU(opcode uint16) int {
	op := (opcode >> 6) & 0xF
	rs := (opcode >> 3) & 0x7
	rd := opcode & 0x7

	a := c.regs.r[rd]
	b := c.regs.r[rs]
	cycles := 1

	switch op {
	case 0x0: // AND
		c.regs.r[rd] = a & b
		c.setNZ(c.regs.r[rd])
	case 0x1: // EOR
		c.regs.r[rd] = a ^ b
		c.setNZ(c.regs.r[rd])
	case 0x2: // LSL
		v, carry := barrelShift(shiftLSL, a, b&0xFF, c.flagC(), false)
		c.regs.r[rd] = v
		c.setNZ(v)
		c.setFlag(flagC, carry)
		cycles = 2
	case 0x3: // LSR
		v, carry := barrelShift(shiftLSR, a, b&0xFF, c.flagC(), false)
		c.regs.r[rd] = v
		c.setNZ(v)
		c.setFlag(flagC, carry)
		cycles = 2
	case 0x4: // ASR
		v, carry := barrelShift(shiftASR, a, b&0xFF, c.flagC(), false)
		c.regs.r[rd] = v
		c.setNZ(v)
		c.setFlag(flagC, carry)
		cycles = 2
	case 0x5: // ADC
		c.regs.r[rd] = c.addWithFlags(a, b, c.carryBit(), true)
	case 0x6: // SBC
		c.regs.r[rd] = c.subWithFlags(a, b, 1-c.carryBit(), true)
	case 0x7: // ROR
		v, carry := barrelShift(shiftROR, a, b&0xFF, c.flagC(), false)
		c.regs.r[rd] = v
		c.setNZ(v)
		c.setFlag(flagC, carry)
		cycles = 2
	case 0x8: // TST
		c.setNZ(a & b)
	case 0x9: // NEG
		c.regs.r[rd] = c.subWithFlags(0, b, 0, true)
	case 0xA: // CMP
		c.subWithFlags(a, b, 0, true)
	case 0xB: // CMN
		c.addWithFlags(a, b, 0, true)
	case 0xC: // ORR
		c.regs.r[rd] = a | b
		c.setNZ(c.regs.r[rd])
	case 0xD: // MUL
		c.regs.r[rd] = a * b
		c.setNZ(c.regs.r[rd])
		cycles = 1 + multiplyCycles(b)
	case 0xE: // BIC
		c.regs.r[rd] = a &^ b
		c.setNZ(c.regs.r[rd])
	case 0xF: // MVN
		c.regs.r[rd] = ^b
		c.setNZ(c.regs.r[rd])
	}
	return cycles
}

// --- Format 5: hi register operations and branch-exchange -----------------

func (c *CPU) thumbHiRegisterOps(opcode uint16) int {
	op := (opcode >> 8) & 0x3
	h1 := opcode&(1<<7) != 0
	h2 := opcode&(1<<6) != 0
	rs := uint32((opcode >> 3) & 0x7)
	rd := uint32(opcode & 0x7)
	if h2 {
		rs += 8
	}
	if h1 {
		rd += 8
	}

	switch op {
	case 0: // ADD
		c.regs.r[rd] = c.regs.r[rd] + c.regs.r[rs]
		if rd == 15 {
			c.flushPipeline()
		}
		return 3
	case 1: // CMP
		c.subWithFlags(c.regs.r[rd], c.regs.r[rs], 0, true)
		return 1
	case 2: // MOV
		c.regs.r[rd] = c.regs.r[rs]
		if rd == 15 {
			c.flushPipeline()
		}
		return 3
	case 3: // BX (and BLX in later cores, not present on ARM7TDMI)
		target := c.regs.r[rs]
		c.regs.setThumb(target&1 != 0)
		c.regs.r[15] = target &^ 1
		c.flushPipeline()
		return 3
	}
	return 1
}

// --- Format 6: PC-relative load ---------------------------------------

func (c *CPU) thumbPCRelativeLoad(opcode uint16) int {
	rd := (opcode >> 8) & 0x7
	word := uint32(opcode&0xFF) << 2
	base := (c.regs.r[15] &^ 3)
	c.regs.r[rd] = c.bus.Read32(base + word)
	return 3
}

// --- Format 7/8: load/store with register offset --------------------------

func (c *CPU) thumbLoadStoreRegOffset(opcode uint16) int {
	load := opcode&(1<<11) != 0
	byteOp := opcode&(1<<10) != 0
	ro := (opcode >> 6) & 0x7
	rb := (opcode >> 3) & 0x7
	rd := opcode & 0x7

	addr := c.regs.r[rb] + c.regs.r[ro]
	if load {
		if byteOp {
			c.regs.r[rd] = uint32(c.bus.Read8(addr))
		} else {
			c.regs.r[rd] = c.readRotatedWord(addr)
		}
		return 3
	}
	if byteOp {
		c.bus.Write8(addr, uint8(c.regs.r[rd]))
	} else {
		c.bus.Write32(addr&^3, c.regs.r[rd])
	}
	return 2
}

func (c *CPU) thumbLoadStoreSignExtended(opcode uint16) int {
	hFlag := opcode&(1<<11) != 0
	sFlag := opcode&(1<<10) != 0
	ro := (opcode >> 6) & 0x7
	rb := (opcode >> 3) & 0x7
	rd := opcode & 0x7

	addr := c.regs.r[rb] + c.regs.r[ro]

	switch {
	case !sFlag && !hFlag: // STRH
		c.bus.Write16(addr&^1, uint16(c.regs.r[rd]))
		return 2
	case !sFlag && hFlag: // LDRH
		raw := c.bus.Read16(addr &^ 1)
		c.regs.r[rd] = uint32(bit.RotateRight32(uint32(raw), uint(addr&1)*8))
		return 3
	case sFlag && !hFlag: // LDSB
		c.regs.r[rd] = uint32(bit.SignExtend(uint32(c.bus.Read8(addr)), 8))
		return 3
	default: // LDSH
		raw := c.bus.Read16(addr &^ 1)
		c.regs.r[rd] = uint32(bit.SignExtend(uint32(raw), 16))
		return 3
	}
}

// --- Format 9: load/store immediate offset --------------------------------

func (c *CPU) thumbLoadStoreImmOffset(opcode uint16) int {
	byteOp := opcode&(1<<12) != 0
	load := opcode&(1<<11) != 0
	offset := uint32((opcode >> 6) & 0x1F)
	rb := (opcode >> 3) & 0x7
	rd := opcode & 0x7

	if !byteOp {
		offset <<= 2
	}
	addr := c.regs.r[rb] + offset

	if load {
		if byteOp {
			c.regs.r[rd] = uint32(c.bus.Read8(addr))
		} else {
			c.regs.r[rd] = c.readRotatedWord(addr)
		}
		return 3
	}
	if byteOp {
		c.bus.Write8(addr, uint8(c.regs.r[rd]))
	} else {
		c.bus.Write32(addr&^3, c.regs.r[rd])
	}
	return 2
}

// --- Format 10: load/store halfword ---------------------------------------

func (c *CPU) thumbLoadStoreHalfword(opcode uint16) int {
	load := opcode&(1<<11) != 0
	offset := uint32((opcode>>6)&0x1F) << 1
	rb := (opcode >> 3) & 0x7
	rd := opcode & 0x7

	addr := c.regs.r[rb] + offset
	if load {
		raw := c.bus.Read16(addr &^ 1)
		c.regs.r[rd] = uint32(bit.RotateRight32(uint32(raw), uint(addr&1)*8))
		return 3
	}
	c.bus.Write16(addr&^1, uint16(c.regs.r[rd]))
	return 2
}

// --- Format 11: SP-relative load/store -------------------------------

func (c *CPU) thumbSPRelativeLoadStore(opcode uint16) int {
	load := opcode&(1<<11) != 0
	rd := (opcode >> 8) & 0x7
	word := uint32(opcode&0xFF) << 2

	addr := c.regs.r[13] + word
	if load {
		c.regs.r[rd] = c.readRotatedWord(addr)
		return 3
	}
	c.bus.Write32(addr&^3, c.regs.r[rd])
	return 2
}

// --- Format 12: load address -----------------------------------------

func (c *CPU) thumbLoadAddress(opcode uint16) int {
	usesSP := opcode&(1<<11) != 0
	rd := (opcode >> 8) & 0x7
	word := uint32(opcode&0xFF) << 2

	var base uint32
	if usesSP {
		base = c.regs.r[13]
	} else {
		base = c.regs.r[15] &^ 3
	}
	c.regs.r[rd] = base + word
	return 1
}

// --- Format 13: add offset to SP ------------------------------------

func (c *CPU) thumbAddOffsetToSP(opcode uint16) int {
	negative := opcode&(1<<7) != 0
	word := uint32(opcode&0x7F) << 2
	if negative {
		c.regs.r[13] -= word
	} else {
		c.regs.r[13] += word
	}
	return 1
}

// --- Format 14: push/pop registers ----------------------------------

func (c *CPU) thumbPushPop(opcode uint16) int {
	load := opcode&(1<<11) != 0
	includeExtra := opcode&(1<<8) != 0
	rlist := uint8(opcode & 0xFF)

	count := 0
	for i := 0; i < 8; i++ {
		if rlist&(1<<uint(i)) != 0 {
			count++
		}
	}
	if includeExtra {
		count++
	}

	if load { // POP
		addr := c.regs.r[13]
		for i := 0; i < 8; i++ {
			if rlist&(1<<uint(i)) != 0 {
				c.regs.r[i] = c.bus.Read32(addr)
				addr += 4
			}
		}
		if includeExtra {
			c.regs.r[15] = c.bus.Read32(addr) &^ 1
			addr += 4
			c.flushPipeline()
		}
		c.regs.r[13] = addr
		cycles := count + 2
		if includeExtra {
			cycles += 2
		}
		return cycles
	}

	// PUSH
	addr := c.regs.r[13] - uint32(count)*4
	c.regs.r[13] = addr
	for i := 0; i < 8; i++ {
		if rlist&(1<<uint(i)) != 0 {
			c.bus.Write32(addr, c.regs.r[i])
			addr += 4
		}
	}
	if includeExtra {
		c.bus.Write32(addr, c.regs.r[14])
	}
	return count + 1
}

// --- Format 15: multiple load/store -----------------------------------

func (c *CPU) thumbMultipleLoadStore(opcode uint16) int {
	load := opcode&(1<<11) != 0
	rb := (opcode >> 8) & 0x7
	rlist := uint8(opcode & 0xFF)

	addr := c.regs.r[rb]
	count := 0
	for i := 0; i < 8; i++ {
		if rlist&(1<<uint(i)) != 0 {
			if load {
				c.regs.r[i] = c.bus.Read32(addr)
			} else {
				c.bus.Write32(addr, c.regs.r[i])
			}
			addr += 4
			count++
		}
	}
	c.regs.r[rb] = addr

	if load {
		return count + 2
	}
	return count + 1
}

// --- Format 16: conditional branch ------------------------------------

func (c *CPU) thumbConditionalBranch(opcode uint16) int {
	cond := uint32((opcode >> 8) & 0xF)
	if !c.condition(cond) {
		return 1
	}
	offset := bit.SignExtend(uint32(opcode&0xFF), 8) << 1
	c.regs.r[15] = uint32(int32(c.regs.r[15]) + offset)
	c.flushPipeline()
	return 3
}

// --- Format 17: software interrupt --------------------------------------

func (c *CPU) thumbSoftwareInterrupt(opcode uint16) int {
	c.RaiseSoftwareInterrupt()
	return 3
}

// --- Format 18: unconditional branch ------------------------------------

func (c *CPU) thumbUnconditionalBranch(opcode uint16) int {
	offset := bit.SignExtend(uint32(opcode&0x7FF), 11) << 1
	c.regs.r[15] = uint32(int32(c.regs.r[15]) + offset)
	c.flushPipeline()
	return 3
}

// --- Format 19: long branch with link -----------------------------------

func (c *CPU) thumbLongBranchLink(opcode uint16) int {
	low := opcode&(1<<11) != 0
	offset := uint32(opcode & 0x7FF)

	if !low {
		signExtended := bit.SignExtend(offset, 11)
		c.regs.r[14] = uint32(int32(c.regs.r[15]) + (signExtended << 12))
		return 1
	}

	nextInstr := c.regs.r[15] - 2
	target := c.regs.r[14] + (offset << 1)
	c.regs.r[14] = nextInstr | 1
	c.regs.r[15] = target
	c.flushPipeline()
	return 3
}
