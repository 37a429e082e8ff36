//go:build sdl2

// Package sdl2 implements backend.Backend with go-sdl2, streaming the
// framebuffer into a texture every frame. There is no audio device or
// debug-window wiring here (no non-goal synthesis to play back, no overlay
// to drive).
package sdl2

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/kestrelcore/goadv/goadv/backend"
	"github.com/kestrelcore/goadv/goadv/display"
	"github.com/kestrelcore/goadv/goadv/keypad"
	"github.com/kestrelcore/goadv/goadv/video"
)

// Backend renders to a hardware-accelerated SDL2 window.
type Backend struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	pixelBuffer []byte
	running     bool
}

// New returns an SDL2 backend.
func New() *Backend { return &Backend{} }

func (s *Backend) Init(config backend.Config) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("failed to initialize SDL2: %w", err)
	}

	scale := config.Scale
	if scale <= 0 {
		scale = display.DefaultPixelScale
	}
	title := config.Title
	if title == "" {
		title = "goadv"
	}

	window, err := sdl.CreateWindow(
		title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(video.FramebufferWidth*scale),
		int32(video.VisibleHeight*scale),
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("failed to create window: %w", err)
	}
	s.window = window

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	s.renderer = renderer

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		video.FramebufferWidth,
		video.VisibleHeight,
	)
	if err != nil {
		renderer.Destroy()
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("failed to create texture: %w", err)
	}
	s.texture = texture

	s.pixelBuffer = make([]byte, video.FramebufferWidth*video.VisibleHeight*display.RGBABytesPerPixel)
	s.running = true
	return nil
}

func (s *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.running = false
		case *sdl.KeyboardEvent:
			if key, ok := keyMapping[e.Keysym.Sym]; ok {
				events = append(events, backend.InputEvent{Key: key, Pressed: e.Type == sdl.KEYDOWN})
			}
		}
	}

	if !s.running {
		return events, nil
	}

	s.renderFrame(frame)
	return events, nil
}

func (s *Backend) renderFrame(frame *video.FrameBuffer) {
	for y := 0; y < video.VisibleHeight; y++ {
		for x := 0; x < video.FramebufferWidth; x++ {
			pixel := frame.GetPixel(x, y)
			off := (y*video.FramebufferWidth + x) * 4
			s.pixelBuffer[off] = byte(pixel)
			s.pixelBuffer[off+1] = byte(pixel >> 8)
			s.pixelBuffer[off+2] = byte(pixel >> 16)
			s.pixelBuffer[off+3] = byte(pixel >> 24)
		}
	}

	s.texture.Update(nil, s.pixelBuffer, video.FramebufferWidth*4)
	s.renderer.Clear()
	s.renderer.Copy(s.texture, nil, nil)
	s.renderer.Present()
}

var keyMapping = map[sdl.Keycode]keypad.Key{
	sdl.K_RETURN: keypad.Start,
	sdl.K_RSHIFT: keypad.Select,
	sdl.K_a:      keypad.A,
	sdl.K_s:      keypad.B,
	sdl.K_q:      keypad.L,
	sdl.K_w:      keypad.R,
	sdl.K_UP:     keypad.Up,
	sdl.K_DOWN:   keypad.Down,
	sdl.K_LEFT:   keypad.Left,
	sdl.K_RIGHT:  keypad.Right,
}

func (s *Backend) Running() bool { return s.running }

func (s *Backend) Cleanup() error {
	if s.texture != nil {
		s.texture.Destroy()
	}
	if s.renderer != nil {
		s.renderer.Destroy()
	}
	if s.window != nil {
		s.window.Destroy()
	}
	sdl.Quit()
	return nil
}
