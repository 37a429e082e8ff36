package debug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeCPU struct {
	regs   [16]uint32
	cpsr   uint32
	cycles uint64
}

func (f *fakeCPU) GetRegister(n int) uint32 { return f.regs[n] }
func (f *fakeCPU) CPSR() uint32             { return f.cpsr }
func (f *fakeCPU) Cycles() uint64           { return f.cycles }

type fakeBus struct {
	ie, ifReg, dispcnt, vcount uint16
}

func (f *fakeBus) IE() uint16      { return f.ie }
func (f *fakeBus) IF() uint16      { return f.ifReg }
func (f *fakeBus) DISPCNT() uint16 { return f.dispcnt }
func (f *fakeBus) VCount() uint16  { return f.vcount }

func TestCapture(t *testing.T) {
	cpu := &fakeCPU{cpsr: 0x80000013, cycles: 42}
	cpu.regs[15] = 0x08000000
	b := &fakeBus{ie: 1, ifReg: 2, dispcnt: 0x0100, vcount: 5}

	s := Capture(cpu, b)

	assert.Equal(t, uint32(0x08000000), s.Registers[15])
	assert.Equal(t, uint64(42), s.Cycles)
	assert.Equal(t, uint16(1), s.IE)
	assert.Equal(t, uint16(5), s.VCount)
	assert.Equal(t, uint32(0x13), s.Mode())
	assert.False(t, s.Thumb())

	n, z, c, v := s.Flags()
	assert.True(t, n)
	assert.False(t, z)
	assert.False(t, c)
	assert.False(t, v)
}
