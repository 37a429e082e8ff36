// Package video implements the scanline pixel processing unit: background
// and object compositing for modes 0-4 (§4.5 of the core specification).
package video

// FrameBuffer is the native-RGBA render target. It is sized 240x228 (the
// full scanline range the PPU writes to), of which only the top 160 rows
// are the visible picture (§3.4, §6).
const (
	FramebufferWidth  = 240
	FramebufferHeight = 228
	VisibleHeight     = 160
	FramebufferSize   = FramebufferWidth * FramebufferHeight
)

type FrameBuffer struct {
	buffer []uint32
}

func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{buffer: make([]uint32, FramebufferSize)}
}

func (fb *FrameBuffer) GetPixel(x, y int) uint32 {
	return fb.buffer[y*FramebufferWidth+x]
}

func (fb *FrameBuffer) SetPixel(x, y int, color uint32) {
	fb.buffer[y*FramebufferWidth+x] = color
}

func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.buffer
}

// ToBinaryData returns the framebuffer as raw RGBA bytes (red first, alpha
// last), matching the R | G<<8 | B<<16 | A<<24 packing expandBGR555 and
// NativeBGPalette/NativeOBJPalette produce.
func (fb *FrameBuffer) ToBinaryData() []byte {
	data := make([]byte, len(fb.buffer)*4)
	for i, pixel := range fb.buffer {
		data[i*4] = byte(pixel)
		data[i*4+1] = byte(pixel >> 8)
		data[i*4+2] = byte(pixel >> 16)
		data[i*4+3] = byte(pixel >> 24)
	}
	return data
}

func (fb *FrameBuffer) Clear() {
	for i := range fb.buffer {
		fb.buffer[i] = 0
	}
}
