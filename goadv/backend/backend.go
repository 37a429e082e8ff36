// Package backend defines the host-facing contract every rendering/input
// frontend implements: render a published frame and translate platform
// input into keypad presses. There is no audio-channel or test-pattern
// surface here since this core has no PSG synthesis to toggle and no debug
// overlay to drive (§1 non-goals).
package backend

import (
	"github.com/kestrelcore/goadv/goadv/keypad"
	"github.com/kestrelcore/goadv/goadv/video"
)

// InputEvent is a single button transition captured by a backend's Update.
type InputEvent struct {
	Key     keypad.Key
	Pressed bool
}

// Backend is a complete host platform: it renders frames and reports input.
type Backend interface {
	// Init configures the backend; must be called once before Update.
	Init(config Config) error

	// Update polls for input, renders frame, and returns the input events
	// observed since the previous call.
	Update(frame *video.FrameBuffer) ([]InputEvent, error)

	// Running reports whether the backend's window/screen is still open.
	Running() bool

	// Cleanup releases platform resources.
	Cleanup() error
}

// Config holds backend-agnostic presentation settings.
type Config struct {
	Title      string
	Scale      int
	Fullscreen bool
}
