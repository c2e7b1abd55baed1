//go:build cgo

package sim

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/sweeney/gamepad-clock/internal/display"
	"github.com/sweeney/gamepad-clock/internal/logic"
)

// Logical window size; the window is shown at twice this.
const (
	screenW = 160
	screenH = 64
)

var keys = map[ebiten.Key]logic.Buttons{
	ebiten.KeyArrowUp:    logic.ButtonUp,
	ebiten.KeyArrowDown:  logic.ButtonDown,
	ebiten.KeyArrowLeft:  logic.ButtonLeft,
	ebiten.KeyArrowRight: logic.ButtonRight,
	ebiten.KeyZ:          logic.ButtonA,
	ebiten.KeyX:          logic.ButtonB,
	ebiten.KeyEnter:      logic.ButtonStart,
	ebiten.KeyShiftLeft:  logic.ButtonSelect,
	ebiten.KeyShiftRight: logic.ButtonSelect,
}

// RunWindow opens the simulator window and blocks until it is closed or
// Escape is pressed. step is called once per frame with a millisecond tick;
// an error from step closes the window and is returned.
func RunWindow(pad *KeyboardPad, panel *display.Panel, step func(tick uint32) error) error {
	g := &game{
		pad:   pad,
		panel: panel,
		step:  step,
		start: time.Now(),
		face:  text.NewGoXFace(basicfont.Face7x13),
	}
	ebiten.SetWindowTitle("gamepad-clock")
	ebiten.SetWindowSize(screenW*2, screenH*2)
	ebiten.SetTPS(60)

	err := ebiten.RunGame(g)
	if err == ebiten.Termination {
		return nil
	}
	return err
}

type game struct {
	pad   *KeyboardPad
	panel *display.Panel
	step  func(tick uint32) error
	start time.Time
	face  *text.GoXFace
}

func (g *game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	var b logic.Buttons
	for k, btn := range keys {
		if ebiten.IsKeyPressed(k) {
			b |= btn
		}
	}
	g.pad.Set(b)

	tick := logic.WrapTick(uint64(time.Since(g.start).Milliseconds()))
	if err := g.step(tick); err != nil {
		return fmt.Errorf("step: %w", err)
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	f := g.panel.Snapshot()

	line := func(s string, y float64, c color.Color) {
		op := &text.DrawOptions{}
		op.GeoM.Translate(2, y)
		op.ColorScale.ScaleWithColor(c)
		text.Draw(screen, strings.ReplaceAll(s, "\x7f", "^"), g.face, op)
	}
	line(f.Top, 2, color.Gray{Y: 0xc0})
	line(f.Digits, 24, color.RGBA{R: 0xff, G: 0x88, B: 0x44, A: 0xff})
	line(f.Bottom, 46, color.Gray{Y: 0xc0})
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}
