package video

// Bus is the narrow read-only capability the PPU needs from the memory
// fabric: register and VRAM/OAM/palette access, never anything about CPU or
// DMA state. Declared here, not in package bus, so video never needs to
// import bus and bus never needs to import video (§9 design note on
// breaking cyclic dependencies with small capability traits).
type Bus interface {
	DISPCNT() uint16
	VCount() uint16
	BGCNT(n int) uint16
	BGHOFS(n int) uint16
	BGVOFS(n int) uint16
	BGAffine(n int) (pa, pb, pc, pd int16, x, y int32)
	NativeBGPalette(index int) uint32
	NativeOBJPalette(index int) uint32
	VRAMByte(off uint32) uint8
	OAMByte(off uint32) uint8
	OAMWord(off uint32) uint16
}

// bgMode is the value of DISPCNT bits 0-2.
type bgMode uint8

const (
	mode0 bgMode = 0 // four text backgrounds
	mode1 bgMode = 1 // bg0,1 text; bg2 affine
	mode2 bgMode = 2 // bg2,3 affine
	mode3 bgMode = 3 // 16bpp bitmap
	mode4 bgMode = 4 // 8bpp paletted bitmap, two frames
)

// PPU renders one scanline at a time into a 240x228 framebuffer (§4.5). The
// top-level scheduler owns the line/V-blank/H-blank timing; the PPU only
// knows how to composite the line the bus's VCOUNT currently names.
type PPU struct {
	framebuffer *FrameBuffer

	// affineX/Y are the internal per-scanline accumulators for BG2 (index 0)
	// and BG3 (index 1); they snapshot from the X/Y reference registers at
	// V-blank entry and advance by PB/PD after every rendered scanline
	// (§4.5.2).
	affineX [2]int32
	affineY [2]int32
}

func New() *PPU {
	return &PPU{framebuffer: NewFrameBuffer()}
}

func (p *PPU) FrameBuffer() *FrameBuffer { return p.framebuffer }

// LatchAffineReference snapshots BG2/BG3's X,Y reference points into the
// internal accumulators. The scheduler calls this once, on entry to
// V-blank (§4.5 step 3).
func (p *PPU) LatchAffineReference(bus Bus) {
	for i, n := range [2]int{2, 3} {
		_, _, _, _, x, y := bus.BGAffine(n)
		p.affineX[i] = x
		p.affineY[i] = y
	}
}

// RenderScanline composites the line named by bus.VCount() into the
// framebuffer (§4.5.1).
func (p *PPU) RenderScanline(bus Bus) {
	line := int(bus.VCount())
	if line < 0 || line >= VisibleHeight {
		return
	}
	dispcnt := bus.DISPCNT()
	mode := bgMode(dispcnt & 0x7)
	rowBase := line * FramebufferWidth

	backdrop := bus.NativeBGPalette(0)
	for x := 0; x < FramebufferWidth; x++ {
		p.framebuffer.buffer[rowBase+x] = backdrop
	}

	switch mode {
	case mode3:
		p.drawBitmapMode3(bus, line, rowBase)
		for priority := 3; priority >= 0; priority-- {
			p.drawObjectRange(bus, dispcnt, line, rowBase, priority, priority)
		}
	case mode4:
		p.drawBitmapMode4(bus, dispcnt, line, rowBase)
		for priority := 3; priority >= 0; priority-- {
			p.drawObjectRange(bus, dispcnt, line, rowBase, priority, priority)
		}
	default:
		for priority := 3; priority >= 0; priority-- {
			p.drawBackgroundsAtPriority(bus, mode, dispcnt, line, rowBase, priority)
			p.drawObjectRange(bus, dispcnt, line, rowBase, priority, priority)
		}
	}

	if mode == mode1 || mode == mode2 {
		p.advanceAffine(bus, 0)
	}
	if mode == mode2 {
		p.advanceAffine(bus, 1)
	}
}

func (p *PPU) advanceAffine(bus Bus, idx int) {
	n := 2 + idx
	_, pb, _, pd, _, _ := bus.BGAffine(n)
	p.affineX[idx] += int32(pb)
	p.affineY[idx] += int32(pd)
}

func (p *PPU) drawBackgroundsAtPriority(bus Bus, mode bgMode, dispcnt uint16, line, rowBase, priority int) {
	for n := 0; n < 4; n++ {
		if dispcnt&(1<<(8+uint(n))) == 0 {
			continue
		}
		bgcnt := bus.BGCNT(n)
		if int(bgcnt&0x3) != priority {
			continue
		}
		switch {
		case mode == mode0:
			p.drawTextBackground(bus, n, line, rowBase)
		case mode == mode1 && n < 2:
			p.drawTextBackground(bus, n, line, rowBase)
		case mode == mode1 && n == 2:
			p.drawAffineBackground(bus, n, 0, line, rowBase)
		case mode == mode2 && (n == 2 || n == 3):
			idx := n - 2
			p.drawAffineBackground(bus, n, idx, line, rowBase)
		}
	}
}
