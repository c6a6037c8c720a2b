// Package graphics adapts the console's screen.Sink to an Ebitengine
// window: a single ebiten.Game that accumulates pixels drawn between
// VBlanks into an RGBA image and presents it, plus keyboard-to-joypad
// polling for both controller ports.
package graphics

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"gones/internal/console"
	"gones/internal/joypad"
	"gones/internal/screen"
)

const (
	nesWidth  = 256
	nesHeight = 240
)

// KeyMap binds host keys to joypad buttons for one controller port.
type KeyMap map[ebiten.Key]joypad.Button

// DefaultKeyMap is player 1's conventional arrow-keys+ZX+Enter/Shift layout.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		ebiten.KeyZ:     joypad.A,
		ebiten.KeyX:     joypad.B,
		ebiten.KeyShift: joypad.Select,
		ebiten.KeyEnter: joypad.Start,
		ebiten.KeyUp:    joypad.Up,
		ebiten.KeyDown:  joypad.Down,
		ebiten.KeyLeft:  joypad.Left,
		ebiten.KeyRight: joypad.Right,
	}
}

// Sink implements screen.Sink by drawing into an in-memory RGBA buffer
// that Draw blits to the ebiten window each frame.
type Sink struct {
	buf   *image.RGBA
	dirty bool
}

// NewSink returns a screen.Sink backed by a 256x240 RGBA buffer.
func NewSink() *Sink {
	return &Sink{buf: image.NewRGBA(image.Rect(0, 0, nesWidth, nesHeight))}
}

var _ screen.Sink = (*Sink)(nil)

// DrawPixel implements screen.Sink.
func (s *Sink) DrawPixel(x, y int, rgb screen.RGB) error {
	s.buf.SetRGBA(x, y, color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 0xFF})
	s.dirty = true
	return nil
}

// VBlank implements screen.Sink; the buffer is already current, so this
// only clears the dirty flag. Game.Draw uploads the buffer on every call
// regardless of the flag.
func (s *Sink) VBlank() error {
	s.dirty = false
	return nil
}

// Bounds reports the pixel rectangle backing the sink.
func (s *Sink) Bounds() image.Rectangle {
	return s.buf.Bounds()
}

// Pixels returns the sink's raw RGBA bytes, for callers (screenshot
// dumping, headless runs) that need the frame without an ebiten context.
func (s *Sink) Pixels() []byte {
	return s.buf.Pix
}

// Game drives one console instance inside an ebiten window: it clocks the
// emulator every Update, polls keys into both joypads, and presents
// Sink's buffer every Draw.
type Game struct {
	Console *console.Console
	Sink    *Sink

	player1 KeyMap
	player2 KeyMap

	frameImage *ebiten.Image
}

// NewGame wires con and sink into an ebiten.Game using the default player-1
// key map; player 2 has no keys bound.
func NewGame(con *console.Console, sink *Sink) *Game {
	return &Game{
		Console:    con,
		Sink:       sink,
		player1:    DefaultKeyMap(),
		player2:    KeyMap{},
		frameImage: ebiten.NewImage(nesWidth, nesHeight),
	}
}

// cyclesPerFrame approximates one NTSC frame's worth of CPU cycles
// (1.789773 MHz / 60.0988 Hz).
const cyclesPerFrame = 29780

// Update advances the emulator by one frame's worth of CPU cycles and
// samples the keyboard into both joypads.
func (g *Game) Update() error {
	g.pollKeys(g.player1, console.Joypad1)
	g.pollKeys(g.player2, console.Joypad2)
	for i := 0; i < cyclesPerFrame; i++ {
		if err := g.Console.Clock(); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) pollKeys(keys KeyMap, which console.Which) {
	for key, btn := range keys {
		if ebiten.IsKeyPressed(key) {
			g.Console.PressButton(btn, which)
		} else {
			g.Console.ReleaseButton(btn, which)
		}
	}
}

// Draw presents the sink's frame buffer.
func (g *Game) Draw(screenImg *ebiten.Image) {
	g.frameImage.WritePixels(g.Sink.buf.Pix)
	screenImg.DrawImage(g.frameImage, nil)
}

// Layout reports the NES's native resolution; ebiten scales it to the
// window per the caller's window-size/scaling configuration.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return nesWidth, nesHeight
}
