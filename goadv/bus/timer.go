package bus

import "github.com/kestrelcore/goadv/goadv/addr"

var prescalerShift = [4]uint{0, 6, 8, 10} // 1, 64, 256, 1024

// timerChannel is one of the four prescaler-driven counters (§3.6, §4.4).
type timerChannel struct {
	index int

	reload  uint16
	counter uint16
	control uint16

	accumulator uint32
	enabled     bool
	overflowed  bool
}

func (t *timerChannel) cascade() bool    { return t.control&(1<<2) != 0 }
func (t *timerChannel) irqEnabled() bool { return t.control&(1<<6) != 0 }
func (t *timerChannel) prescaleShift() uint {
	return prescalerShift[t.control&0x3]
}

func (t *timerChannel) counterRead() uint16 { return t.counter }
func (t *timerChannel) controlRead() uint16 { return t.control }

func (t *timerChannel) writeReload(value uint16) {
	t.reload = value
}

// writeControl implements the "enabling a previously-disabled timer reloads
// its counter and clears its accumulator" rule (§4.4).
func (t *timerChannel) writeControl(value uint16) {
	wasEnabled := t.enabled
	t.control = value
	t.enabled = value&(1<<7) != 0
	if !wasEnabled && t.enabled {
		t.counter = t.reload
		t.accumulator = 0
	}
}

// Advance ticks all four timers by delta CPU cycles, in channel order, so
// cascade timers observe the current cycle batch's overflow from their
// predecessor (§4.4).
func (b *Bus) Advance(delta int) {
	for i := 0; i < 4; i++ {
		t := &b.timer[i]
		if !t.enabled {
			t.overflowed = false
			continue
		}

		var ticks uint32
		if t.cascade() && i > 0 {
			if b.timer[i-1].overflowed {
				ticks = 1
			}
		} else {
			t.accumulator += uint32(delta)
			shift := t.prescaleShift()
			ticks = t.accumulator >> shift
			t.accumulator -= ticks << shift
		}

		t.overflowed = false
		for ticks > 0 {
			room := uint32(0x10000) - uint32(t.counter)
			if ticks < room {
				t.counter += uint16(ticks)
				ticks = 0
			} else {
				ticks -= room
				t.counter = t.reload
				t.overflowed = true
				b.onTimerOverflow(i)
			}
		}
	}
}

func (b *Bus) onTimerOverflow(index int) {
	if fifoTimerA(b) == index {
		b.triggerFIFODMA(0)
		if b.fifoSink != nil {
			b.fifoSink.PopSample(0)
		}
	}
	if fifoTimerB(b) == index {
		b.triggerFIFODMA(1)
		if b.fifoSink != nil {
			b.fifoSink.PopSample(1)
		}
	}
	if b.timer[index].irqEnabled() {
		b.RequestInterrupt(timerInterrupt(index))
	}
}

// fifoTimerA/B read SOUNDCNT_H's timer-select bits (10 for FIFO A, 14 for
// FIFO B: 0 selects timer 0, 1 selects timer 1).
func fifoTimerA(b *Bus) int {
	if b.rawHalf(addr.SOUNDCNT_H)&(1<<10) != 0 {
		return 1
	}
	return 0
}

func fifoTimerB(b *Bus) int {
	if b.rawHalf(addr.SOUNDCNT_H)&(1<<14) != 0 {
		return 1
	}
	return 0
}

func timerInterrupt(index int) addr.Interrupt {
	switch index {
	case 0:
		return addr.IRQTimer0
	case 1:
		return addr.IRQTimer1
	case 2:
		return addr.IRQTimer2
	default:
		return addr.IRQTimer3
	}
}
