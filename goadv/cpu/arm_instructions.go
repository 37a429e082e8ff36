package cpu

import "github.com/kestrelcore/goadv/goadv/bit"

// --- Branch and branch-exchange ---------------------------------------

func (c *CPU) armBranchExchange(opcode uint32) int {
	rn := opcode & 0xF
	target := c.regs.r[rn]
	c.regs.setThumb(target&1 != 0)
	c.regs.r[15] = target &^ 1
	c.flushPipeline()
	return 3
}

func (c *CPU) armBranch(opcode uint32) int {
	link := opcode&(1<<24) != 0
	offset := bit.SignExtend(opcode&0xFFFFFF, 24) << 2
	if link {
		c.regs.r[14] = c.regs.r[15] - 4
	}
	c.regs.r[15] = uint32(int32(c.regs.r[15]) + offset)
	c.flushPipeline()
	return 3
}

func (c *CPU) armSoftwareInterrupt(opcode uint32) int {
	c.RaiseSoftwareInterrupt()
	return 3
}

// --- Data processing ----------------------------------------------------

const (
	opAND = 0x0
	opEOR = 0x1
	opSUB = 0x2
	opRSB = 0x3
	opADD = 0x4
	opADC = 0x5
	opSBC = 0x6
	opRSC = 0x7
	opTST = 0x8
	opTEQ = 0x9
	opCMP = 0xA
	opCMN = 0xB
	opORR = 0xC
	opMOV = 0xD
	opBIC = 0xE
	opMVN = 0xF
)

func (c *CPU) armDataProcessing(opcode uint32) int {
	rn := (opcode >> 16) & 0xF
	rd := (opcode >> 12) & 0xF
	s := opcode&(1<<20) != 0
	aluOp := (opcode >> 21) & 0xF

	op2, shifterCarry := c.operand2(opcode)
	op1 := c.regs.r[rn]

	cycles := 1
	if opcode&(1<<25) == 0 && opcode&(1<<4) != 0 {
		cycles++ // register-specified shift
	}
	if rd == 15 {
		cycles += 2
	}

	var result uint32
	writesResult := true

	switch aluOp {
	case opAND:
		result = op1 & op2
		c.logicalFlags(result, shifterCarry, s)
	case opEOR:
		result = op1 ^ op2
		c.logicalFlags(result, shifterCarry, s)
	case opSUB:
		result = c.subWithFlags(op1, op2, 0, s)
	case opRSB:
		result = c.subWithFlags(op2, op1, 0, s)
	case opADD:
		result = c.addWithFlags(op1, op2, 0, s)
	case opADC:
		result = c.addWithFlags(op1, op2, c.carryBit(), s)
	case opSBC:
		result = c.subWithFlags(op1, op2, 1-c.carryBit(), s)
	case opRSC:
		result = c.subWithFlags(op2, op1, 1-c.carryBit(), s)
	case opTST:
		result = op1 & op2
		c.logicalFlags(result, shifterCarry, true)
		writesResult = false
	case opTEQ:
		result = op1 ^ op2
		c.logicalFlags(result, shifterCarry, true)
		writesResult = false
	case opCMP:
		c.subWithFlags(op1, op2, 0, true)
		writesResult = false
	case opCMN:
		c.addWithFlags(op1, op2, 0, true)
		writesResult = false
	case opORR:
		result = op1 | op2
		c.logicalFlags(result, shifterCarry, s)
	case opMOV:
		result = op2
		c.logicalFlags(result, shifterCarry, s)
	case opBIC:
		result = op1 &^ op2
		c.logicalFlags(result, shifterCarry, s)
	case opMVN:
		result = ^op2
		c.logicalFlags(result, shifterCarry, s)
	}

	if writesResult {
		c.regs.r[rd] = result
		if rd == 15 {
			if s && c.restoreCPSRFromSPSR() {
				// mode/flags restored from SPSR
			}
			c.flushPipeline()
		}
	}

	return cycles
}

func (c *CPU) carryBit() uint32 {
	if c.flagC() {
		return 1
	}
	return 0
}

// logicalFlags applies NZ (+ shifter carry when requested) for logical ops
// and MOV/MVN, per §4.2.5 ("logical ops forward the shifter carry").
func (c *CPU) logicalFlags(result uint32, shifterCarry, update bool) {
	if !update {
		return
	}
	c.setNZ(result)
	c.setFlag(flagC, shifterCarry)
}

// restoreCPSRFromSPSR loads CPSR from the current mode's SPSR; used when an
// S-bit data-processing instruction writes r15 (§4.2.5).
func (c *CPU) restoreCPSRFromSPSR() bool {
	s := c.regs.spsr()
	if s == nil {
		return false
	}
	newMode := Mode(*s & modeMask)
	saved := *s
	c.regs.switchMode(newMode)
	c.regs.cpsr = saved
	return true
}

// --- PSR transfer ---------------------------------------------------------

func (c *CPU) armMRS(opcode uint32) int {
	rd := (opcode >> 12) & 0xF
	usesSPSR := opcode&(1<<22) != 0
	if usesSPSR {
		if s := c.regs.spsr(); s != nil {
			c.regs.r[rd] = *s
		}
	} else {
		c.regs.r[rd] = c.regs.cpsr
	}
	return 1
}

func (c *CPU) armMSR(opcode uint32) int {
	usesSPSR := opcode&(1<<22) != 0

	var value uint32
	if opcode&(1<<25) != 0 {
		imm := opcode & 0xFF
		rot := (opcode >> 8) & 0xF * 2
		value, _ = barrelShift(shiftROR, imm, rot, c.flagC(), true)
	} else {
		rm := opcode & 0xF
		value = c.regs.r[rm]
	}

	// Field mask (bit 19: flags, bit 16: control) - only flags (NZCV) are
	// writable from USER mode; control bits require a privileged mode.
	var mask uint32
	if opcode&(1<<19) != 0 {
		mask |= 0xFF000000
	}
	privileged := c.regs.mode() != ModeUser
	if privileged && opcode&(1<<16) != 0 {
		mask |= 0x000000FF
	}

	if usesSPSR {
		if s := c.regs.spsr(); s != nil {
			*s = (*s &^ mask) | (value & mask)
		}
		return 1
	}

	if mask&0xFF != 0 {
		newMode := Mode(value & modeMask)
		c.regs.switchMode(newMode)
	}
	c.regs.cpsr = (c.regs.cpsr &^ mask) | (value & mask)
	return 1
}

// --- Multiply -------------------------------------------------------------

func multiplyCycles(rs uint32) int {
	m := 1
	check := rs
	for i := 0; i < 3; i++ {
		top := (check >> 24) & 0xFF
		if top != 0x00 && top != 0xFF {
			m++
		}
		check <<= 8
	}
	return m
}

func (c *CPU) armMultiply(opcode uint32) int {
	rd := (opcode >> 16) & 0xF
	rn := (opcode >> 12) & 0xF
	rs := (opcode >> 8) & 0xF
	rm := opcode & 0xF
	accumulate := opcode&(1<<21) != 0
	s := opcode&(1<<20) != 0

	result := c.regs.r[rm] * c.regs.r[rs]
	cycles := 1 + multiplyCycles(c.regs.r[rs])
	if accumulate {
		result += c.regs.r[rn]
		cycles++
	}
	c.regs.r[rd] = result
	if s {
		c.setNZ(result)
	}
	return cycles
}

func (c *CPU) armMultiplyLong(opcode uint32) int {
	rdHi := (opcode >> 16) & 0xF
	rdLo := (opcode >> 12) & 0xF
	rs := (opcode >> 8) & 0xF
	rm := opcode & 0xF
	signed := opcode&(1<<22) != 0
	accumulate := opcode&(1<<21) != 0
	s := opcode&(1<<20) != 0

	cycles := 2 + multiplyCycles(c.regs.r[rs])
	var result uint64
	if signed {
		result = uint64(int64(int32(c.regs.r[rm])) * int64(int32(c.regs.r[rs])))
	} else {
		result = uint64(c.regs.r[rm]) * uint64(c.regs.r[rs])
	}
	if accumulate {
		result += uint64(c.regs.r[rdHi])<<32 | uint64(c.regs.r[rdLo])
		cycles++
	}
	c.regs.r[rdHi] = uint32(result >> 32)
	c.regs.r[rdLo] = uint32(result)
	if s {
		c.setNZ(uint32(result >> 32))
		if result == 0 {
			c.regs.cpsr |= flagZ
		}
	}
	return cycles
}

// --- Single data swap -------------------------------------------------

func (c *CPU) armSingleDataSwap(opcode uint32) int {
	rn := (opcode >> 16) & 0xF
	rd := (opcode >> 12) & 0xF
	rm := opcode & 0xF
	byteSwap := opcode&(1<<22) != 0
	addr := c.regs.r[rn]

	if byteSwap {
		old := c.bus.Read8(addr)
		c.bus.Write8(addr, uint8(c.regs.r[rm]))
		c.regs.r[rd] = uint32(old)
	} else {
		old := c.readRotatedWord(addr)
		c.bus.Write32(addr, c.regs.r[rm])
		c.regs.r[rd] = old
	}
	return 4
}

func (c *CPU) readRotatedWord(addr uint32) uint32 {
	word := c.bus.Read32(addr &^ 3)
	return bit.RotateRight32(word, uint(addr&3)*8)
}

// --- Halfword / signed data transfer -----------------------------------

func (c *CPU) armHalfwordSignedTransfer(opcode uint32) int {
	rn := (opcode >> 16) & 0xF
	rd := (opcode >> 12) & 0xF
	pre := opcode&(1<<24) != 0
	up := opcode&(1<<23) != 0
	immForm := opcode&(1<<22) != 0
	writeback := opcode&(1<<21) != 0
	load := opcode&(1<<20) != 0
	sBit := opcode&(1<<6) != 0
	hBit := opcode&(1<<5) != 0

	var offset uint32
	if immForm {
		offset = ((opcode>>8)&0xF)<<4 | (opcode & 0xF)
	} else {
		rm := opcode & 0xF
		offset = c.regs.r[rm]
	}

	base := c.regs.r[rn]
	var transferAddr uint32
	if pre {
		if up {
			transferAddr = base + offset
		} else {
			transferAddr = base - offset
		}
	} else {
		transferAddr = base
	}

	cycles := 3
	if load {
		var value uint32
		switch {
		case sBit && hBit:
			raw := c.bus.Read16(transferAddr &^ 1)
			value = uint32(int32(bit.SignExtend(uint32(raw), 16)))
		case sBit && !hBit:
			raw := c.bus.Read8(transferAddr)
			value = uint32(bit.SignExtend(uint32(raw), 8))
		default:
			raw := c.bus.Read16(transferAddr &^ 1)
			value = uint32(bit.RotateRight32(uint32(raw), uint(transferAddr&1)*8))
		}
		c.regs.r[rd] = value
		if rd == 15 {
			cycles += 2
			c.flushPipeline()
		}
	} else {
		c.bus.Write16(transferAddr&^1, uint16(c.regs.r[rd]))
		cycles = 2
	}

	if !pre {
		if up {
			transferAddr = base + offset
		} else {
			transferAddr = base - offset
		}
		c.regs.r[rn] = transferAddr
	} else if writeback {
		c.regs.r[rn] = transferAddr
	}

	return cycles
}

// --- Single data transfer (LDR/STR) --------------------------------------

func (c *CPU) armSingleDataTransfer(opcode uint32) int {
	rn := (opcode >> 16) & 0xF
	rd := (opcode >> 12) & 0xF
	immForm := opcode&(1<<25) == 0
	pre := opcode&(1<<24) != 0
	up := opcode&(1<<23) != 0
	byteTransfer := opcode&(1<<22) != 0
	writeback := opcode&(1<<21) != 0
	load := opcode&(1<<20) != 0

	var offset uint32
	if immForm {
		offset = opcode & 0xFFF
	} else {
		offset, _ = c.operand2(opcode &^ (1 << 4)) // shift by immediate only, never by register in this form
	}

	base := c.regs.r[rn]
	var addr uint32
	if pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
	} else {
		addr = base
	}

	cycles := 3
	if load {
		var value uint32
		if byteTransfer {
			value = uint32(c.bus.Read8(addr))
		} else {
			value = c.readRotatedWord(addr)
		}
		c.regs.r[rd] = value
		if rd == 15 {
			cycles += 2
			c.flushPipeline()
		}
	} else {
		if byteTransfer {
			c.bus.Write8(addr, uint8(c.regs.r[rd]))
		} else {
			c.bus.Write32(addr&^3, c.regs.r[rd])
		}
		cycles = 2
	}

	if !pre {
		if up {
			addr = base + offset
		} else {
			addr = base - offset
		}
		c.regs.r[rn] = addr
	} else if writeback {
		c.regs.r[rn] = addr
	}

	return cycles
}

// --- Block data transfer (LDM/STM) ---------------------------------------

func (c *CPU) armBlockDataTransfer(opcode uint32) int {
	rn := (opcode >> 16) & 0xF
	load := opcode&(1<<20) != 0
	writeback := opcode&(1<<21) != 0
	userBank := opcode&(1<<22) != 0
	up := opcode&(1<<23) != 0
	pre := opcode&(1<<24) != 0
	regList := opcode & 0xFFFF

	var regs []uint32
	for i := uint32(0); i < 16; i++ {
		if regList&(1<<i) != 0 {
			regs = append(regs, i)
		}
	}

	base := c.regs.r[rn]
	count := uint32(len(regs))
	var start uint32
	if up {
		start = base
	} else {
		start = base - count*4
	}

	addr := start
	if up && pre {
		addr += 4
	}
	if !up && !pre {
		addr += 4
	}

	loadedPC := false
	for _, r := range regs {
		if load {
			if userBank && r < 15 {
				c.regs.r[r] = c.bus.Read32(addr)
			} else {
				c.regs.r[r] = c.bus.Read32(addr)
				if r == 15 {
					loadedPC = true
				}
			}
		} else {
			c.bus.Write32(addr, c.regs.r[r])
		}
		addr += 4
	}

	if writeback {
		if up {
			c.regs.r[rn] = base + count*4
		} else {
			c.regs.r[rn] = base - count*4
		}
	}

	if loadedPC {
		if userBank {
			c.restoreCPSRFromSPSR()
		}
		c.flushPipeline()
	}

	cycles := int(count) + 1
	if load {
		cycles = int(count) + 2
		if loadedPC {
			cycles += 2
		}
	}
	return cycles
}
