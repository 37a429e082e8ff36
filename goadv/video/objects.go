package video

// objSize maps (shape, size) to an object's pixel (width, height), per the
// lookup table described in §4.5.3/§8.
var objSize = [3][4][2]int{
	{{8, 8}, {16, 16}, {32, 32}, {64, 64}}, // shape 0: square
	{{16, 8}, {32, 8}, {32, 16}, {64, 32}}, // shape 1: wide
	{{8, 16}, {8, 32}, {16, 32}, {32, 64}}, // shape 2: tall
}

const objTileBase = 0x10000

// drawObjectRange draws every enabled, non-affine-hidden object whose
// priority falls in [minPriority, maxPriority], iterating OAM from index
// 127 down to 0 so lower indices overwrite (§4.5.3).
func (p *PPU) drawObjectRange(bus Bus, dispcnt uint16, line, rowBase, minPriority, maxPriority int) {
	if dispcnt&0x1000 == 0 {
		return
	}
	oneDMapping := dispcnt&0x40 != 0

	for obj := 127; obj >= 0; obj-- {
		attr0 := bus.OAMWord(uint32(obj * 8))
		attr1 := bus.OAMWord(uint32(obj*8 + 2))
		attr2 := bus.OAMWord(uint32(obj*8 + 4))

		affine := attr0&0x100 != 0
		if !affine && attr0&0x200 != 0 {
			continue // hidden
		}

		priority := int(attr2>>10) & 0x3
		if priority < minPriority || priority > maxPriority {
			continue
		}

		shape := int(attr0>>14) & 0x3
		if shape == 3 {
			continue // prohibited
		}
		size := int(attr1>>14) & 0x3
		dims := objSize[shape][size]
		width, height := dims[0], dims[1]

		doubleSize := affine && attr0&0x200 != 0
		boxW, boxH := width, height
		if doubleSize {
			boxW, boxH = width*2, height*2
		}

		objY := int(attr0 & 0xFF)
		rowInSprite := (line - objY) & 0xFF
		if rowInSprite >= boxH {
			continue
		}

		objX := int(attr1 & 0x1FF)
		if objX >= 240 {
			objX -= 512
		}

		colorMode256 := attr0&0x2000 != 0
		paletteNum := int(attr2>>12) & 0xF
		tileNumber := uint32(attr2 & 0x3FF)

		var pa, pb, pc, pd int32 = 256, 0, 0, 256
		if affine {
			idx := int(attr1>>9) & 0x1F
			fa, fb, fc, fd := p.loadAffineParams(bus, idx)
			pa, pb, pc, pd = int32(fa), int32(fb), int32(fc), int32(fd)
		}

		flipX := !affine && attr1&0x1000 != 0
		flipY := !affine && attr1&0x2000 != 0

		halfBoxW, halfBoxH := boxW/2, boxH/2
		halfW, halfH := width/2, height/2
		dy := rowInSprite - halfBoxH

		for sx := 0; sx < boxW; sx++ {
			screenX := objX + sx
			if screenX < 0 || screenX >= FramebufferWidth {
				continue
			}

			var texX, texY int
			if affine {
				dx := sx - halfBoxW
				rx := (pa*int32(dx) + pb*int32(dy)) >> 8
				ry := (pc*int32(dx) + pd*int32(dy)) >> 8
				texX = halfW + int(rx)
				texY = halfH + int(ry)
				if texX < 0 || texX >= width || texY < 0 || texY >= height {
					continue
				}
			} else {
				texX = sx
				texY = rowInSprite
				if flipX {
					texX = width - 1 - texX
				}
				if flipY {
					texY = height - 1 - texY
				}
			}

			tileCol := texX / 8
			tileRow := texY / 8
			pixelX := texX % 8
			pixelY := texY % 8
			tilesWide := width / 8

			bpp := 1
			if colorMode256 {
				bpp = 2
			}

			var tileIndex uint32
			if oneDMapping {
				tileIndex = tileNumber + uint32(tileRow*tilesWide+tileCol)*uint32(bpp)
			} else {
				tileIndex = tileNumber + uint32(tileRow)*32 + uint32(tileCol)*uint32(bpp)
			}

			var colorIndex uint8
			var palette int
			if colorMode256 {
				addr := uint32(objTileBase) + tileIndex*32 + uint32(pixelY*8+pixelX)
				colorIndex = bus.VRAMByte(addr)
				palette = int(colorIndex)
			} else {
				addr := uint32(objTileBase) + tileIndex*32 + uint32(pixelY*4+pixelX/2)
				raw := bus.VRAMByte(addr)
				if pixelX%2 == 0 {
					colorIndex = raw & 0xF
				} else {
					colorIndex = raw >> 4
				}
				palette = paletteNum*16 + int(colorIndex)
			}

			if colorIndex == 0 {
				continue
			}
			p.framebuffer.buffer[rowBase+screenX] = bus.NativeOBJPalette(palette)
		}
	}
}

// loadAffineParams reads the four fixed-point parameters of affine
// parameter set idx (0-31) from the filler bytes interleaved in OAM
// (§4.5.3).
func (p *PPU) loadAffineParams(bus Bus, idx int) (pa, pb, pc, pd int16) {
	base := uint32(idx*32 + 6)
	pa = int16(bus.OAMWord(base))
	pb = int16(bus.OAMWord(base + 8))
	pc = int16(bus.OAMWord(base + 16))
	pd = int16(bus.OAMWord(base + 24))
	return
}
