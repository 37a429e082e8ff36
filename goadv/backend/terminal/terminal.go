// Package terminal implements backend.Backend with tcell, rendering the
// visible 240x160 region as half-block characters (two scanlines per
// terminal cell) in the true-color palette expanded from the GBA's
// BGR555 pixels.
package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/kestrelcore/goadv/goadv/backend"
	"github.com/kestrelcore/goadv/goadv/keypad"
	"github.com/kestrelcore/goadv/goadv/video"
)

const (
	width  = video.FramebufferWidth
	height = video.VisibleHeight
)

// keyMapping maps terminal key runes to GBA buttons (a=A, s=B, q=Select,
// Enter=Start); the arrow keys are in specialKeyMapping.
var keyMapping = map[rune]keypad.Key{
	'a': keypad.A,
	's': keypad.B,
	'q': keypad.Select,
	'\r': keypad.Start,
}

var specialKeyMapping = map[tcell.Key]keypad.Key{
	tcell.KeyUp:    keypad.Up,
	tcell.KeyDown:  keypad.Down,
	tcell.KeyLeft:  keypad.Left,
	tcell.KeyRight: keypad.Right,
	tcell.KeyEnter: keypad.Start,
}

// Backend renders via a tcell.Screen.
type Backend struct {
	screen  tcell.Screen
	running bool
}

// New returns a terminal backend.
func New() *Backend { return &Backend{} }

func (b *Backend) Init(config backend.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	b.screen = screen
	b.running = true
	return nil
}

func (b *Backend) Update(frame *video.FrameBuffer) ([]backend.InputEvent, error) {
	var events []backend.InputEvent

	for b.screen.HasPendingEvent() {
		switch ev := b.screen.PollEvent().(type) {
		case *tcell.EventKey:
			events = append(events, b.translateKey(ev)...)
		case *tcell.EventResize:
			b.screen.Sync()
		}
	}

	if !b.running {
		return events, nil
	}

	b.render(frame)
	b.screen.Show()
	return events, nil
}

func (b *Backend) translateKey(ev *tcell.EventKey) []backend.InputEvent {
	if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
		b.running = false
		return nil
	}
	if key, ok := specialKeyMapping[ev.Key()]; ok {
		return []backend.InputEvent{{Key: key, Pressed: true}}
	}
	if key, ok := keyMapping[ev.Rune()]; ok {
		return []backend.InputEvent{{Key: key, Pressed: true}}
	}
	return nil
}

func (b *Backend) render(frame *video.FrameBuffer) {
	for y := 0; y < height; y += 2 {
		for x := 0; x < width; x++ {
			top := frame.GetPixel(x, y)
			bottom := top
			if y+1 < height {
				bottom = frame.GetPixel(x, y+1)
			}
			style := tcell.StyleDefault.
				Foreground(nativeToTcellColor(top)).
				Background(nativeToTcellColor(bottom))
			b.screen.SetContent(x, y/2, '▀', nil, style)
		}
	}
}

// nativeToTcellColor unpacks a framebuffer pixel, which packs red in the
// low byte, green next, blue next and alpha in the high byte (the order
// video.expandBGR555 produces).
func nativeToTcellColor(c uint32) tcell.Color {
	r := uint8(c)
	g := uint8(c >> 8)
	b := uint8(c >> 16)
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func (b *Backend) Running() bool { return b.running }

func (b *Backend) Cleanup() error {
	if b.screen != nil {
		b.screen.Fini()
	}
	b.running = false
	return nil
}
