// Package display holds pixel-format and window-scaling constants shared by
// the backend packages, so sdl2, terminal and headless agree on one
// definition of "native size" and "native pixel layout".
package display

// RGBA pixel format constants, matching video.FrameBuffer's encoding.
const (
	RGBABytesPerPixel = 4
	RGBARShift        = 0
	RGBAGShift        = 8
	RGBABShift        = 16
	RGBAColorMask     = 0xFF
)

// Window scaling constants for the visible 240x160 region (§3.4, §6).
const (
	DefaultPixelScale   = 3
	DefaultWindowWidth  = 240 * DefaultPixelScale
	DefaultWindowHeight = 160 * DefaultPixelScale
)
