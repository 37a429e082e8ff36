package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeBus is a minimal video.Bus double backed by flat byte slices, enough
// to drive the PPU without pulling in the real bus package.
type fakeBus struct {
	dispcnt uint16
	vcount  uint16
	bgcnt   [4]uint16
	bghofs  [4]uint16
	bgvofs  [4]uint16
	affine  [2]struct {
		pa, pb, pc, pd int16
		x, y           int32
	}
	bgPalette  [256]uint32
	objPalette [256]uint32
	vram       [0x18000]byte
	oam        [0x400]byte
}

func (f *fakeBus) DISPCNT() uint16    { return f.dispcnt }
func (f *fakeBus) VCount() uint16     { return f.vcount }
func (f *fakeBus) BGCNT(n int) uint16 { return f.bgcnt[n] }
func (f *fakeBus) BGHOFS(n int) uint16 { return f.bghofs[n] }
func (f *fakeBus) BGVOFS(n int) uint16 { return f.bgvofs[n] }
func (f *fakeBus) BGAffine(n int) (pa, pb, pc, pd int16, x, y int32) {
	a := f.affine[n-2]
	return a.pa, a.pb, a.pc, a.pd, a.x, a.y
}
func (f *fakeBus) NativeBGPalette(index int) uint32  { return f.bgPalette[index] }
func (f *fakeBus) NativeOBJPalette(index int) uint32 { return f.objPalette[index] }
func (f *fakeBus) VRAMByte(off uint32) uint8         { return f.vram[off&(0x18000-1)] }
func (f *fakeBus) OAMByte(off uint32) uint8          { return f.oam[off&0x3FF] }
func (f *fakeBus) OAMWord(off uint32) uint16 {
	o := off & 0x3FF
	return uint16(f.oam[o]) | uint16(f.oam[o+1])<<8
}

func setPalette(f *fakeBus, bg bool, index int, raw uint16) {
	color := expandBGR555(raw)
	if bg {
		f.bgPalette[index] = color
	} else {
		f.objPalette[index] = color
	}
}

func TestRenderScanline_Mode4PaletteRoundTrip(t *testing.T) {
	f := &fakeBus{dispcnt: 0x0404} // mode 4, bg2 enable
	setPalette(f, true, 1, 0x7FFF)
	for x := 0; x < FramebufferWidth; x++ {
		f.vram[x] = 0x01
	}

	p := New()
	p.RenderScanline(f)

	want := expandBGR555(0x7FFF)
	for x := 0; x < FramebufferWidth; x++ {
		assert.Equal(t, want, p.FrameBuffer().GetPixel(x, 0), "pixel %d", x)
	}
}

func TestRenderScanline_Mode3Bitmap(t *testing.T) {
	f := &fakeBus{dispcnt: 0x0400 | 3}
	raw := uint16(0x1234)
	f.vram[0] = byte(raw)
	f.vram[1] = byte(raw >> 8)

	p := New()
	p.RenderScanline(f)

	assert.Equal(t, expandBGR555(raw), p.FrameBuffer().GetPixel(0, 0))
}

func TestRenderScanline_TextBackgroundTransparencyLeavesBackdrop(t *testing.T) {
	f := &fakeBus{dispcnt: 0x0100} // mode 0, bg0 enable
	f.bgcnt[0] = 0                 // char base 0, map base 0, 16-color
	setPalette(f, true, 0, 0x0311) // backdrop
	// map entry 0 at (0,0): tile number 1, palette 0
	f.vram[0] = 1
	f.vram[1] = 0
	// tile 1 data (4bpp, 32 bytes) all zero => fully transparent

	p := New()
	p.RenderScanline(f)

	want := expandBGR555(0x0311)
	assert.Equal(t, want, p.FrameBuffer().GetPixel(0, 0))
}

func TestRenderScanline_TextBackgroundOpaqueTexel(t *testing.T) {
	f := &fakeBus{dispcnt: 0x0100}
	f.bgcnt[0] = 0
	setPalette(f, true, 5, 0x1F)
	f.vram[0] = 1 // tile number 1
	f.vram[1] = 0
	tileAddr := uint32(1 * 32) // charBase 0 + tile*32
	f.vram[tileAddr] = 0x05    // pixel 0 in tile row 0 = color index 5 (low nibble)

	p := New()
	p.RenderScanline(f)

	assert.Equal(t, expandBGR555(0x1F), p.FrameBuffer().GetPixel(0, 0))
}

func TestRenderScanline_ObjectOverwritesBackground(t *testing.T) {
	f := &fakeBus{dispcnt: 0x1100} // mode 0, bg0 + obj enable
	setPalette(f, true, 0, 0x0000)
	setPalette(f, false, 3, 0x7C00) // obj palette entry 3: blue

	// object 0: 8x8 square, shape 0 size 0, at (0,0), tile 0, priority 0
	f.oam[0] = 0          // attr0 Y=0
	f.oam[1] = 0          // attr0 high byte: shape=0, not affine
	f.oam[2] = 0          // attr1 X=0
	f.oam[3] = 0          // attr1 high byte: size=0
	f.oam[4] = 0          // attr2 tile=0
	f.oam[5] = 0          // attr2 high byte: priority 0, palette 0

	// tile 0, 4bpp, pixel (0,0) = color index 3
	f.vram[objTileBase] = 0x03

	p := New()
	p.RenderScanline(f)

	assert.Equal(t, expandBGR555(0x7C00), p.FrameBuffer().GetPixel(0, 0))
}

func TestRenderScanline_BitmapModeRespectsVisibleHeight(t *testing.T) {
	f := &fakeBus{dispcnt: 0x0400 | 3, vcount: uint16(VisibleHeight)}
	p := New()
	// vcount outside the visible 160 rows: RenderScanline must not panic or
	// write past the allocated buffer.
	p.RenderScanline(f)
	assert.Equal(t, uint32(0), p.FrameBuffer().GetPixel(0, VisibleHeight))
}

func TestLatchAffineReference(t *testing.T) {
	f := &fakeBus{}
	f.affine[0].x = 1000
	f.affine[0].y = 2000
	f.affine[1].x = 3000
	f.affine[1].y = 4000

	p := New()
	p.LatchAffineReference(f)

	assert.Equal(t, int32(1000), p.affineX[0])
	assert.Equal(t, int32(2000), p.affineY[0])
	assert.Equal(t, int32(3000), p.affineX[1])
	assert.Equal(t, int32(4000), p.affineY[1])
}
