package video

// expandBGR555 converts a 15-bit BGR color into 32-bit native RGBA via bit
// replication, matching the expansion the bus performs when palette RAM is
// written (§3.4, §8's round-trip property). Bitmap modes read raw VRAM
// colors directly rather than through the derived palette, so the PPU keeps
// its own copy of this small, already-established formula.
func expandBGR555(raw uint16) uint32 {
	r5 := uint32(raw) & 0x1F
	g5 := uint32(raw>>5) & 0x1F
	b5 := uint32(raw>>10) & 0x1F
	r8 := r5<<3 | r5>>2
	g8 := g5<<3 | g5>>2
	b8 := b5<<3 | b5>>2
	return r8 | g8<<8 | b8<<16 | 0xFF000000
}
