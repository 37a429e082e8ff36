package bus

import (
	"testing"

	"github.com/kestrelcore/goadv/goadv/addr"
	"github.com/stretchr/testify/assert"
)

type fakePC struct{ pc uint32 }

func (f *fakePC) GetPC() uint32 { return f.pc }

func newTestBus() *Bus {
	bios := make([]byte, addr.BIOSSize)
	rom := make([]byte, 0x1000)
	return New(bios, rom, NoBackup{})
}

func TestHalfwordRoundTrip_EWRAM(t *testing.T) {
	b := newTestBus()
	b.Write16(addr.EWRAMStart+0x100, 0xBEEF)
	assert.Equal(t, uint16(0xBEEF), b.Read16(addr.EWRAMStart+0x100))
}

func TestHalfwordRoundTrip_IWRAM(t *testing.T) {
	b := newTestBus()
	b.Write16(addr.IWRAMStart+0x10, 0x1234)
	assert.Equal(t, uint16(0x1234), b.Read16(addr.IWRAMStart+0x10))
}

func TestWordRoundTrip_VRAM(t *testing.T) {
	b := newTestBus()
	b.Write32(addr.VRAMStart+0x200, 0xCAFEBABE)
	assert.Equal(t, uint32(0xCAFEBABE), b.Read32(addr.VRAMStart+0x200))
}

func TestMisalignedWordLoadRotates(t *testing.T) {
	b := newTestBus()
	b.Write32(addr.EWRAMStart, 0xDEADBEEF)
	got := b.Read32(addr.EWRAMStart + 1)
	assert.Equal(t, uint32(0xEFDEADBE), got)
}

func TestBIOSBusLatch(t *testing.T) {
	b := newTestBus()
	putLE32(b.bios[0:], 0x11111111)
	putLE32(b.bios[4:], 0x22222222)

	pc := &fakePC{pc: 0}
	b.SetPCProvider(pc)

	assert.Equal(t, uint32(0x11111111), b.Read32(0))

	pc.pc = addr.BIOSSize // PC has left the BIOS region
	assert.Equal(t, uint32(0x11111111), b.Read32(4), "reads outside BIOS with PC elsewhere return the last fetched word")
}

func TestPaletteRoundTrip(t *testing.T) {
	b := newTestBus()
	b.Write16(addr.PALStart, 0x7FFF)

	got := b.NativeBGPalette(0)
	want := expandBGR555(0x7FFF)
	assert.Equal(t, want, got)
	assert.Equal(t, uint8(0xFF), uint8(got>>24), "alpha lane must be fully opaque")
}

func TestDISPSTATIRQEnableRepeatedWriteNoSpuriousFlags(t *testing.T) {
	b := newTestBus()
	b.Write16(addr.IOStart+addr.DISPSTAT, 0x0038) // enable all three IRQs
	b.Write16(addr.IOStart+addr.DISPSTAT, 0x0038)
	assert.Equal(t, uint16(0), b.IF())
}

func TestDMAImmediateTransferScenario(t *testing.T) {
	b := newTestBus()

	for i := uint32(0); i < 0x40; i++ {
		b.Write32(addr.EWRAMStart+i*4, 0x1000+i)
	}

	b.Write32(addr.IOStart+addr.DMA0SAD, addr.EWRAMStart)
	b.Write32(addr.IOStart+addr.DMA0DAD, addr.OAMStart)
	b.Write16(addr.IOStart+addr.DMA0CNT_L, 0x40)
	b.Write16(addr.IOStart+addr.DMA0CNT_H, 0x8400) // enable | 32-bit | immediate

	for i := uint32(0); i < 0x40; i++ {
		want := b.Read32(addr.EWRAMStart + i*4)
		got := b.Read32(addr.OAMStart + i*4)
		assert.Equal(t, want, got, "word %d", i)
	}

	assert.Equal(t, uint16(0), b.dma[0].controlRead()&0x8000, "enable bit must clear after an immediate transfer")
}

func TestROMRegionDefaultsToROMNotBackup(t *testing.T) {
	rom := make([]byte, 0x1000)
	for i := range rom {
		rom[i] = byte(i)
	}
	b := New(make([]byte, addr.BIOSSize), rom, &SRAMBackup{})

	// 0x0D000000 mirrors the same ROM image as 0x08000000 for any
	// cartridge that isn't actually using the EEPROM overlay.
	assert.Equal(t, b.Read8(addr.ROMStart), b.Read8(0x0D000000))
}

func TestEEPROMOverlaySmallCartCoversWholeBank(t *testing.T) {
	b := newTestBus()
	b.backup = NewEEPROMBackup(6)

	assert.Equal(t, regionBackup, b.classify(0x0D000000))
	assert.Equal(t, regionBackup, b.classify(0x0D123456))
}

func TestEEPROMOverlayLargeCartOnlyTopOf0xD(t *testing.T) {
	b := newTestBus()
	b.backup = NewEEPROMBackup(14)

	assert.Equal(t, regionROM, b.classify(0x0D000000))
	assert.Equal(t, regionBackup, b.classify(0x0DFFFF00))
}

func TestTimerOverflowRaisesInterrupt(t *testing.T) {
	b := newTestBus()
	b.Write16(addr.IOStart+addr.IE, uint16(addr.IRQTimer0))
	b.Write16(addr.IOStart+addr.IME, 1)
	b.Write16(addr.IOStart+addr.TM0CNT_L, 0xFFFE)
	b.Write16(addr.IOStart+addr.TM0CNT_H, 0x00C0) // enable, IRQ, prescaler /1

	b.Advance(4)

	assert.True(t, b.IF()&uint16(addr.IRQTimer0) != 0)
}

type fakeFIFOSink struct{ pops []int }

func (f *fakeFIFOSink) PopSample(which int) { f.pops = append(f.pops, which) }

func TestTimerOverflowPopsFIFOSampleForSelectedTimer(t *testing.T) {
	b := newTestBus()
	sink := &fakeFIFOSink{}
	b.SetFIFOSampleSink(sink)

	// SOUNDCNT_H bit 10 selects timer 1 to drive FIFO A.
	b.Write16(addr.IOStart+addr.SOUNDCNT_H, 1<<10)
	b.Write16(addr.IOStart+addr.TM1CNT_L, 0xFFFF)
	b.Write16(addr.IOStart+addr.TM1CNT_H, 0x0080) // enable, prescaler /1

	b.Advance(1) // one tick overflows a counter starting at 0xFFFF

	assert.Equal(t, []int{0}, sink.pops)
}
