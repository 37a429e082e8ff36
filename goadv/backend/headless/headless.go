// Package headless implements backend.Backend without any platform window,
// for frame-count-driven runs and snapshot/benchmark tooling.
package headless

import (
	"github.com/kestrelcore/goadv/goadv/backend"
	"github.com/kestrelcore/goadv/goadv/video"
)

// Backend discards input and keeps the last frame it was given.
type Backend struct {
	lastFrame *video.FrameBuffer
	running   bool
}

// New returns a headless backend.
func New() *Backend { return &Backend{} }

func (b *Backend) Init(config backend.Config) error {
	b.running = true
	return nil
}

func (b *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	b.lastFrame = frame
	return nil, nil
}

func (b *Backend) Running() bool { return b.running }

func (b *Backend) Cleanup() error {
	b.running = false
	return nil
}

// LastFrame returns the most recent frame passed to Update, or nil.
func (b *Backend) LastFrame() *video.FrameBuffer { return b.lastFrame }
