package video

// textBGSize maps BGCNT's 2-bit screen-size field to the text background's
// pixel dimensions (§4.5.2: "size ∈ {256x256, 512x256, 256x512, 512x512}
// for text").
var textBGSize = [4][2]int{
	{256, 256},
	{512, 256},
	{256, 512},
	{512, 512},
}

// affineBGSize maps the same field to the affine background's pixel
// dimensions (§4.5.2: "{128^2, 256^2, 512^2, 1024^2} for affine").
var affineBGSize = [4]int{128, 256, 512, 1024}

// drawTextBackground renders background n's text-mode scanline, skipping
// transparent (color index 0) texels so the existing pixel shows through
// (§4.5.1, §4.5.2).
func (p *PPU) drawTextBackground(bus Bus, n, line, rowBase int) {
	bgcnt := bus.BGCNT(n)
	charBase := uint32((bgcnt>>2)&0x3) * 0x4000
	colors256 := bgcnt&0x80 != 0
	screenBase := uint32((bgcnt>>8)&0x1F) * 0x800
	sizeIdx := (bgcnt >> 14) & 0x3
	dims := textBGSize[sizeIdx]

	hofs := int(bus.BGHOFS(n) & 0x1FF)
	vofs := int(bus.BGVOFS(n) & 0x1FF)

	y := (line + vofs) & (dims[1] - 1)
	blockWide := dims[0] / 256
	tileRowGlobal := y / 8
	blockRow := tileRowGlobal / 32
	localTileY := tileRowGlobal % 32
	pixelYInTile := y % 8

	for screenX := 0; screenX < FramebufferWidth; screenX++ {
		x := (screenX + hofs) & (dims[0] - 1)
		tileColGlobal := x / 8
		blockCol := tileColGlobal / 32
		localTileX := tileColGlobal % 32
		pixelXInTile := x % 8

		blockIndex := blockRow*blockWide + blockCol
		entryOffset := screenBase + uint32(blockIndex)*0x800 + uint32(localTileY*32+localTileX)*2
		entry := uint16(bus.VRAMByte(entryOffset)) | uint16(bus.VRAMByte(entryOffset+1))<<8

		tileNumber := uint32(entry & 0x3FF)
		flipX := entry&0x400 != 0
		flipY := entry&0x800 != 0
		paletteNum := int(entry>>12) & 0xF

		px, py := pixelXInTile, pixelYInTile
		if flipX {
			px = 7 - px
		}
		if flipY {
			py = 7 - py
		}

		var colorIndex uint8
		var palette int
		if colors256 {
			tileAddr := charBase + tileNumber*64 + uint32(py*8+px)
			colorIndex = bus.VRAMByte(tileAddr)
			palette = int(colorIndex)
		} else {
			tileAddr := charBase + tileNumber*32 + uint32(py*4+px/2)
			raw := bus.VRAMByte(tileAddr)
			if px%2 == 0 {
				colorIndex = raw & 0xF
			} else {
				colorIndex = raw >> 4
			}
			palette = paletteNum*16 + int(colorIndex)
		}
		if colorIndex == 0 {
			continue
		}
		p.framebuffer.buffer[rowBase+screenX] = bus.NativeBGPalette(palette)
	}
}

// drawAffineBackground renders an affine background (BG2 or BG3) scanline
// using the internal X/Y accumulator at index accIdx, per §4.5.2.
func (p *PPU) drawAffineBackground(bus Bus, n, accIdx, line, rowBase int) {
	bgcnt := bus.BGCNT(n)
	charBase := uint32((bgcnt>>2)&0x3) * 0x4000
	screenBase := uint32((bgcnt>>8)&0x1F) * 0x800
	wrap := bgcnt&0x2000 != 0
	sizeIdx := (bgcnt >> 14) & 0x3
	mapTiles := affineBGSize[sizeIdx] / 8

	pa, _, pc, _, _, _ := bus.BGAffine(n)
	refX := p.affineX[accIdx]
	refY := p.affineY[accIdx]

	for x := 0; x < FramebufferWidth; x++ {
		ox := refX + int32(pa)*int32(x)
		oy := refY + int32(pc)*int32(x)

		tmx := int(ox >> 11)
		tmy := int(oy >> 11)
		pixelX := int(ox>>8) & 7
		pixelY := int(oy>>8) & 7

		if wrap {
			tmx &= mapTiles - 1
			tmy &= mapTiles - 1
		} else if tmx < 0 || tmx >= mapTiles || tmy < 0 || tmy >= mapTiles {
			continue
		}

		mapOffset := screenBase + uint32(tmy*mapTiles+tmx)
		tileNumber := uint32(bus.VRAMByte(mapOffset))
		tileAddr := charBase + tileNumber*64 + uint32(pixelY*8+pixelX)
		colorIndex := bus.VRAMByte(tileAddr)
		if colorIndex == 0 {
			continue
		}
		p.framebuffer.buffer[rowBase+x] = bus.NativeBGPalette(int(colorIndex))
	}
}

// drawBitmapMode3 renders BG2 as a direct 16bpp BGR bitmap (§4.5.2).
func (p *PPU) drawBitmapMode3(bus Bus, line, rowBase int) {
	base := uint32(line * 480)
	for x := 0; x < FramebufferWidth; x++ {
		off := base + uint32(x*2)
		raw := uint16(bus.VRAMByte(off)) | uint16(bus.VRAMByte(off+1))<<8
		p.framebuffer.buffer[rowBase+x] = expandBGR555(raw)
	}
}

// drawBitmapMode4 renders BG2 as an 8bpp paletted bitmap, one of two frames
// selected by DISPCNT bit 4 (§4.5.2).
func (p *PPU) drawBitmapMode4(bus Bus, dispcnt uint16, line, rowBase int) {
	frameBase := uint32(0)
	if dispcnt&0x10 != 0 {
		frameBase = 0xA000
	}
	base := frameBase + uint32(line*240)
	for x := 0; x < FramebufferWidth; x++ {
		index := bus.VRAMByte(base + uint32(x))
		if index == 0 {
			continue
		}
		p.framebuffer.buffer[rowBase+x] = bus.NativeBGPalette(int(index))
	}
}
