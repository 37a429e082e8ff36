package bus

import "github.com/kestrelcore/goadv/goadv/addr"

// dmaTiming is the start-timing field of a channel's control register.
type dmaTiming uint8

const (
	dmaTimingImmediate dmaTiming = iota
	dmaTimingVBlank
	dmaTimingHBlank
	dmaTimingSpecial
)

// addrControl is the per-operand increment mode (§3.5).
type addrControl uint8

const (
	addrIncrement addrControl = iota
	addrDecrement
	addrFixed
	addrIncrementReload // destination only
)

// dmaChannel holds one of the four DMA channels' register and latched
// transfer state (§3.5, §4.3).
type dmaChannel struct {
	index int

	srcReg   uint32
	dstReg   uint32
	countReg uint16
	control  uint16

	srcAddr   uint32
	dstAddr   uint32
	remaining uint32
	enabled   bool
}

func (c *dmaChannel) destControl() addrControl { return addrControl((c.control >> 5) & 0x3) }
func (c *dmaChannel) srcControl() addrControl {
	v := addrControl((c.control >> 7) & 0x3)
	if v == 3 {
		return addrIncrement // reserved/prohibited treated as increment
	}
	return v
}
func (c *dmaChannel) repeat() bool    { return c.control&(1<<9) != 0 }
func (c *dmaChannel) wordSize() bool  { return c.control&(1<<10) != 0 } // true = 32-bit
func (c *dmaChannel) timing() dmaTiming {
	return dmaTiming((c.control >> 12) & 0x3)
}
func (c *dmaChannel) irqEnabled() bool { return c.control&(1<<14) != 0 }

func (c *dmaChannel) countRead() uint16 { return c.countReg }
func (c *dmaChannel) controlRead() uint16 { return c.control }

func (c *dmaChannel) writeSAD(offset uint32, value uint16) {
	base := addr.DMA0SAD + uint32(c.index)*0xC
	if offset == base {
		c.srcReg = (c.srcReg &^ 0xFFFF) | uint32(value)
	} else {
		c.srcReg = (c.srcReg & 0xFFFF) | uint32(value)<<16
	}
}

func (c *dmaChannel) writeDAD(offset uint32, value uint16) {
	base := addr.DMA0DAD + uint32(c.index)*0xC
	if offset == base {
		c.dstReg = (c.dstReg &^ 0xFFFF) | uint32(value)
	} else {
		c.dstReg = (c.dstReg & 0xFFFF) | uint32(value)<<16
	}
}

func (c *dmaChannel) writeCountLatch(value uint16) {
	c.countReg = value
}

// writeControl handles the enable-edge rule from §4.3: a 0->1 transition on
// the enable bit latches source/destination/count and starts an immediate
// transfer now if the timing is "immediately".
func (c *dmaChannel) writeControl(value uint16, b *Bus) {
	wasEnabled := c.enabled
	c.control = value
	c.enabled = value&(1<<15) != 0

	if !wasEnabled && c.enabled {
		c.latch()
		if c.timing() == dmaTimingImmediate {
			c.run(b)
		}
	}
}

func (c *dmaChannel) latch() {
	align := uint32(1)
	if c.wordSize() {
		align = 3
	} else {
		align = 1
	}
	c.srcAddr = c.srcReg &^ align
	c.dstAddr = c.dstReg &^ align
	count := uint32(c.countReg)
	if count == 0 {
		if c.index == 3 {
			count = 0x10000
		} else {
			count = 0x4000
		}
	}
	c.remaining = count
}

// run performs the full transfer in one shot (§4.3): each unit moves one
// 16- or 32-bit value and advances both pointers per their increment mode.
func (c *dmaChannel) run(b *Bus) {
	unit := uint32(2)
	if c.wordSize() {
		unit = 4
	}

	for c.remaining > 0 {
		if c.wordSize() {
			b.Write32(c.dstAddr, b.Read32(c.srcAddr))
		} else {
			b.Write16(c.dstAddr, b.Read16(c.srcAddr))
		}
		c.srcAddr = stepAddr(c.srcAddr, c.srcControl(), unit)
		c.dstAddr = stepAddr(c.dstAddr, c.destControl(), unit)
		c.remaining--
	}

	c.complete(b)
}

// runFIFO performs a sound-FIFO DMA burst: always 32-bit, always 4 words,
// never touches count or the destination pointer (§4.3 "FIFO DMA").
func (c *dmaChannel) runFIFO(b *Bus) {
	for i := 0; i < 4; i++ {
		b.Write32(c.dstAddr, b.Read32(c.srcAddr))
		c.srcAddr = stepAddr(c.srcAddr, c.srcControl(), 4)
	}
}

func stepAddr(a uint32, mode addrControl, unit uint32) uint32 {
	switch mode {
	case addrIncrement, addrIncrementReload:
		return a + unit
	case addrDecrement:
		return a - unit
	default:
		return a
	}
}

func (c *dmaChannel) complete(b *Bus) {
	if c.irqEnabled() {
		b.RequestInterrupt(dmaInterrupt(c.index))
	}
	if c.repeat() {
		count := uint32(c.countReg)
		if count == 0 {
			if c.index == 3 {
				count = 0x10000
			} else {
				count = 0x4000
			}
		}
		c.remaining = count
		if c.destControl() == addrIncrementReload {
			c.dstAddr = c.dstReg
		}
	} else {
		c.enabled = false
		c.control &^= 1 << 15
	}
}

func dmaInterrupt(index int) addr.Interrupt {
	switch index {
	case 0:
		return addr.IRQDMA0
	case 1:
		return addr.IRQDMA1
	case 2:
		return addr.IRQDMA2
	default:
		return addr.IRQDMA3
	}
}

// TriggerVBlank runs every enabled channel whose timing is V-blank (§4.5 step 3).
func (b *Bus) TriggerVBlank() {
	b.runTimed(dmaTimingVBlank)
}

// TriggerHBlank runs every enabled channel whose timing is H-blank, but only
// while vcount < 160 per §4.3.
func (b *Bus) TriggerHBlank() {
	if b.vcount >= 160 {
		return
	}
	b.runTimed(dmaTimingHBlank)
}

func (b *Bus) runTimed(t dmaTiming) {
	for i := 0; i < 4; i++ {
		ch := &b.dma[i]
		if ch.enabled && ch.timing() == t {
			ch.run(b)
		}
	}
}

// triggerFIFODMA fires the sound-FIFO burst transfer for the DMA channel
// feeding `which` (0=FIFO A via channel 1, 1=FIFO B via channel 2), invoked
// by the timer engine on overflow of the selected timer (§4.3, §4.4).
func (b *Bus) triggerFIFODMA(which int) {
	channel := 1
	if which == 1 {
		channel = 2
	}
	ch := &b.dma[channel]
	if !ch.enabled || ch.timing() != dmaTimingSpecial {
		return
	}
	if b.FIFOLen(which) > 16 {
		return
	}
	ch.runFIFO(b)
}
