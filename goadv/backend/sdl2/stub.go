//go:build !sdl2

// This build omits go-sdl2's cgo dependency by default; build with -tags
// sdl2 to get the real window backend in sdl2.go.
package sdl2

import (
	"errors"

	"github.com/kestrelcore/goadv/goadv/backend"
	"github.com/kestrelcore/goadv/goadv/video"
)

// Backend is a placeholder that fails to initialize; present so callers can
// reference sdl2.New() unconditionally and get a clear error rather than a
// build failure when cgo/SDL2 isn't available.
type Backend struct{}

func New() *Backend { return &Backend{} }

func (b *Backend) Init(config backend.Config) error {
	return errors.New("sdl2 backend not compiled in: build with -tags sdl2")
}

func (b *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	return nil, errors.New("sdl2 backend not compiled in")
}

func (b *Backend) Running() bool { return false }

func (b *Backend) Cleanup() error { return nil }
