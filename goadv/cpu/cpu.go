// Package cpu implements the ARM7TDMI interpreter: fetch/decode/execute for
// both instruction widths, banked registers, condition codes, exceptions and
// the single-stage prefetch pipeline (§4.2).
package cpu

import (
	"fmt"
	"log/slog"
)

// Bus is the narrow memory-fabric capability the CPU needs. It is defined
// here (consumer side) rather than imported from the bus package, so the
// interpreter never needs to know about waitstates, I/O dispatch or backup
// state machines - only about loads and stores.
type Bus interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	Write8(addr uint32, value uint8)
	Write16(addr uint32, value uint16)
	Write32(addr uint32, value uint32)

	IE() uint16
	IF() uint16
	IME() bool

	// AccessCycles returns the WAITCNT-derived cost of one access of the
	// given width (2 or 4 bytes) at addr, sequential or not (§4.1.1). The
	// CPU charges this on every instruction fetch so cartridge waitstates
	// are observable in the cycle counts Run/Step report.
	AccessCycles(addr uint32, width int, sequential bool) int
}

// CPU is the ARM7TDMI interpreter state (§3.1).
type CPU struct {
	regs registerFile
	bus  Bus

	latch       uint32 // prefetch latch: next fetched opcode
	latchValid  bool
	currentOp   uint32 // the opcode currently being decoded/executed
	cycles      uint64 // free-running cycle counter

	fetchSequential bool // true once the prefetch stream is flowing linearly
	waitCycles      int  // extra cycles fetches in the current Step charged

	halted bool
	stopped bool
}

// New returns a CPU wired to the given bus, with r15 at the reset vector
// and the pipeline empty (it will refill on the first Step).
func New(bus Bus) *CPU {
	c := &CPU{
		bus:  bus,
		regs: newRegisterFile(),
	}
	c.regs.r[15] = 0x00000000 // BIOS reset vector
	return c
}

// GetPC returns the raw r15 value (ahead of the executing instruction by
// one or two instruction widths, per the ARM7TDMI pipeline contract).
func (c *CPU) GetPC() uint32 { return c.regs.r[15] }

// GetRegister returns the live value of r0-r15 (banking-aware).
func (c *CPU) GetRegister(n int) uint32 { return c.regs.r[n] }

// SetRegister writes r0-r15 directly; used by tests and by exception entry.
func (c *CPU) SetRegister(n int, v uint32) {
	c.regs.r[n] = v
	if n == 15 {
		c.flushPipeline()
	}
}

// CPSR returns the current program status register.
func (c *CPU) CPSR() uint32 { return c.regs.cpsr }

// Cycles returns the free-running cycle counter.
func (c *CPU) Cycles() uint64 { return c.cycles }

// Halt puts the CPU in HALT state (HALTCNT write, §5). HALT is released
// once an enabled interrupt becomes pending.
func (c *CPU) Halt() { c.halted = true }

// Stop puts the CPU in STOP state.
func (c *CPU) Stop() { c.stopped = true }

func (c *CPU) instructionWidth() uint32 {
	if c.regs.thumb() {
		return 2
	}
	return 4
}

// flushPipeline invalidates the prefetch latch; the next Step will refetch
// from the new r15 (§4.2.1: "a write to r15 invalidates the latch"). The
// refetch is necessarily a fresh, non-sequential bus access.
func (c *CPU) flushPipeline() {
	c.latchValid = false
	c.fetchSequential = false
}

func (c *CPU) fetch() uint32 {
	width := c.instructionWidth()
	addr := c.regs.r[15]
	var word uint32
	if width == 2 {
		word = uint32(c.bus.Read16(addr))
	} else {
		word = c.bus.Read32(addr)
	}
	if extra := c.bus.AccessCycles(addr, int(width), c.fetchSequential) - 1; extra > 0 {
		c.waitCycles += extra
	}
	c.fetchSequential = true
	c.regs.r[15] += width
	return word
}

// Run executes instructions until at least `budget` cycles have been spent,
// returning the actual number of cycles spent (which may overshoot budget
// by the cost of the final instruction).
func (c *CPU) Run(budget int) int {
	spent := 0
	for spent < budget {
		if c.stopped {
			spent += budget - spent
			break
		}
		if c.halted {
			if c.pendingIRQ() {
				c.halted = false
			} else {
				spent++
				c.cycles++
				continue
			}
		}
		spent += c.Step()
	}
	return spent
}

// Step executes exactly one instruction (after filling the pipeline if
// needed) and returns its cycle cost. It implements §4.2.1's three-phase
// fetch/fetch/decode-execute pipeline and the post-instruction IRQ sample
// from §4.2.6/§5.
func (c *CPU) Step() int {
	c.waitCycles = 0

	if !c.latchValid {
		c.latch = c.fetch()
		c.latchValid = true
	}

	c.currentOp = c.latch
	c.latch = c.fetch()

	var cyclesSpent int
	if c.regs.thumb() {
		cyclesSpent = c.executeThumb(uint16(c.currentOp))
	} else {
		cyclesSpent = c.executeARM(c.currentOp)
	}

	cyclesSpent += c.waitCycles
	c.cycles += uint64(cyclesSpent)

	if c.pendingIRQ() {
		c.enterException(ModeIRQ, addrVectorIRQ, false)
	}

	return cyclesSpent
}

func (c *CPU) pendingIRQ() bool {
	if c.regs.irqDisabled() {
		return false
	}
	if !c.bus.IME() {
		return false
	}
	return c.bus.IE()&c.bus.IF() != 0
}

// enterException performs exception entry per §4.2.6: save CPSR to the
// target mode's SPSR, switch mode (banking registers), set I (and F for
// reset/FIQ), clear T, compute LR as r15 minus a per-vector offset, jump to
// the vector and refill the pipeline.
func (c *CPU) enterException(mode Mode, vector uint32, maskFIQ bool) {
	savedCPSR := c.regs.cpsr
	wasThumb := c.regs.thumb()

	c.regs.switchMode(mode)
	if s := c.regs.spsr(); s != nil {
		*s = savedCPSR
	}

	c.regs.cpsr |= flagI
	if maskFIQ {
		c.regs.cpsr |= flagF
	}
	c.regs.setThumb(false)

	var lrOffset uint32
	switch vector {
	case addrVectorIRQ, addrVectorFIQ, addrVectorDAbt:
		lrOffset = 4
	case addrVectorSWI, addrVectorUndef:
		if wasThumb {
			lrOffset = 2
		} else {
			lrOffset = 4
		}
	case addrVectorPAbt, addrVectorAddr26:
		lrOffset = 4
	}

	c.regs.r[14] = c.regs.r[15] - lrOffset
	c.regs.r[15] = vector
	c.flushPipeline()

	c.halted = false
	c.stopped = false

	slog.Debug("cpu exception entered", "vector", fmt.Sprintf("0x%02X", vector), "mode", mode)
}

// vector constants mirrored locally (same values as addr's Vector*
// constants); enterException's LR-offset table switches over all seven.
const (
	addrVectorSWI    uint32 = 0x08
	addrVectorUndef  uint32 = 0x04
	addrVectorPAbt   uint32 = 0x0C
	addrVectorDAbt   uint32 = 0x10
	addrVectorAddr26 uint32 = 0x14
	addrVectorIRQ    uint32 = 0x18
	addrVectorFIQ    uint32 = 0x1C
)

// RaiseSoftwareInterrupt is invoked by the SWI instruction handler.
func (c *CPU) RaiseSoftwareInterrupt() {
	c.enterException(ModeSVC, addrVectorSWI, false)
}

// RaiseUndefined is invoked for the ARM undefined-instruction encoding. An
// opcode that matches no decode pattern goes to decodeFault instead, which
// panics.
func (c *CPU) RaiseUndefined() {
	c.enterException(ModeUND, addrVectorUndef, false)
}

func unimplemented(mnemonic string, opcode uint32, thumb bool, pc uint32) {
	panic(fmt.Sprintf("unimplemented instruction %s (opcode=0x%X thumb=%v pc=0x%08X)", mnemonic, opcode, thumb, pc))
}

func decodeFault(opcode uint32, thumb bool, pc uint32) {
	panic(fmt.Sprintf("no decode pattern matched opcode=0x%08X thumb=%v pc=0x%08X", opcode, thumb, pc))
}
