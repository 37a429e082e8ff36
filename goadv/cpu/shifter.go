package cpu

// shiftType enumerates the four barrel-shifter operations.
type shiftType uint32

const (
	shiftLSL shiftType = 0
	shiftLSR shiftType = 1
	shiftASR shiftType = 2
	shiftROR shiftType = 3
)

// barrelShift produces (value, carryOut) for the given shift class, amount
// and input, implementing the special cases of §4.2.4: immediate-form
// LSR/ASR #0 act as #32, ROR #0 (immediate) is RRX, shifts >= 32 saturate
// per ARM7 rules, and a register-specified shift of 0 leaves value/carry
// unchanged.
func barrelShift(kind shiftType, value uint32, amount uint32, carryIn bool, immediateForm bool) (result uint32, carryOut bool) {
	if !immediateForm && amount == 0 {
		return value, carryIn
	}

	switch kind {
	case shiftLSL:
		return shiftLSLImpl(value, amount, carryIn)
	case shiftLSR:
		if immediateForm && amount == 0 {
			amount = 32
		}
		return shiftLSRImpl(value, amount, carryIn)
	case shiftASR:
		if immediateForm && amount == 0 {
			amount = 32
		}
		return shiftASRImpl(value, amount, carryIn)
	case shiftROR:
		if immediateForm && amount == 0 {
			// RRX: rotate right through carry by one bit.
			carryOut = value&1 != 0
			result = value >> 1
			if carryIn {
				result |= 0x80000000
			}
			return result, carryOut
		}
		return shiftRORImpl(value, amount, carryIn)
	}
	return value, carryIn
}

func shiftLSLImpl(value, amount uint32, carryIn bool) (uint32, bool) {
	if amount == 0 {
		return value, carryIn
	}
	if amount < 32 {
		carryOut := value&(1<<(32-amount)) != 0
		return value << amount, carryOut
	}
	if amount == 32 {
		return 0, value&1 != 0
	}
	return 0, false
}

func shiftLSRImpl(value, amount uint32, carryIn bool) (uint32, bool) {
	if amount == 0 {
		return value, carryIn
	}
	if amount < 32 {
		carryOut := value&(1<<(amount-1)) != 0
		return value >> amount, carryOut
	}
	if amount == 32 {
		return 0, value&0x80000000 != 0
	}
	return 0, false
}

func shiftASRImpl(value, amount uint32, carryIn bool) (uint32, bool) {
	signed := int32(value)
	if amount == 0 {
		return value, carryIn
	}
	if amount < 32 {
		carryOut := value&(1<<(amount-1)) != 0
		return uint32(signed >> amount), carryOut
	}
	// amount >= 32: result is all sign bits.
	if signed < 0 {
		return 0xFFFFFFFF, true
	}
	return 0, false
}

func shiftRORImpl(value, amount uint32, carryIn bool) (uint32, bool) {
	if amount == 0 {
		return value, carryIn
	}
	amount &= 31
	if amount == 0 {
		// Multiple of 32: value unchanged, carry is bit 31.
		return value, value&0x80000000 != 0
	}
	result := (value >> amount) | (value << (32 - amount))
	carryOut := result&0x80000000 != 0
	return result, carryOut
}
