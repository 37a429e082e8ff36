package bus

// waitstateTable holds the sequential/non-sequential access-time costs
// derived from REG_WAITCNT, per §4.1.1. It is recomputed whenever WAITCNT
// is written.
type waitstateTable struct {
	sramCycles int
	ws0First   int
	ws0Second  int
	ws1First   int
	ws1Second  int
	ws2First   int
	ws2Second  int
}

var firstAccessCycles = [4]int{4, 3, 2, 8}
var ws0SecondCycles = [2]int{2, 1}
var ws1SecondCycles = [2]int{4, 1}
var ws2SecondCycles = [2]int{8, 1}

func newWaitstateTable(waitcnt uint16) waitstateTable {
	return waitstateTable{
		sramCycles: firstAccessCycles[waitcnt&0x3],
		ws0First:   firstAccessCycles[(waitcnt>>2)&0x3],
		ws0Second:  ws0SecondCycles[(waitcnt>>4)&0x1],
		ws1First:   firstAccessCycles[(waitcnt>>5)&0x3],
		ws1Second:  ws1SecondCycles[(waitcnt>>7)&0x1],
		ws2First:   firstAccessCycles[(waitcnt>>8)&0x3],
		ws2Second:  ws2SecondCycles[(waitcnt>>10)&0x1],
	}
}

// AccessCycles16 returns the cost of one halfword access to the cartridge
// ROM window (region selects WS0/WS1/WS2) or backup (SRAM), per §4.1.1.
func (t waitstateTable) AccessCycles16(address uint32, sequential bool) int {
	switch address >> 24 {
	case 0x08, 0x09:
		if sequential {
			return t.ws0Second + 1
		}
		return t.ws0First + 1
	case 0x0A, 0x0B:
		if sequential {
			return t.ws1Second + 1
		}
		return t.ws1First + 1
	case 0x0C, 0x0D:
		if sequential {
			return t.ws2Second + 1
		}
		return t.ws2First + 1
	case 0x0E:
		return t.sramCycles + 1
	default:
		return 1
	}
}

// AccessCycles32 derives the 32-bit cost from the 16-bit tables: a
// non-sequential 32-bit access costs (non-sequential16 + sequential16); a
// sequential 32-bit access costs 2*sequential16 (§4.1.1).
func (t waitstateTable) AccessCycles32(address uint32, sequential bool) int {
	if sequential {
		return 2 * t.AccessCycles16(address, true)
	}
	return t.AccessCycles16(address, false) + t.AccessCycles16(address, true)
}

// AccessCycles is consulted by the CPU on every instruction fetch, so a
// WAITCNT write changes the cycle cost of code running out of cartridge
// ROM/SRAM immediately (§4.1.1). Load/store access outside the fetch path
// does not additionally charge this table; §4.5's H-draw/H-blank budgets
// already size the visible scanline around fetch-dominated cost.
func (b *Bus) AccessCycles(address uint32, width int, sequential bool) int {
	if width == 4 {
		return b.waitTable.AccessCycles32(address, sequential)
	}
	return b.waitTable.AccessCycles16(address, sequential)
}
