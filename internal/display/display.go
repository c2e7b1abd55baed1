// Package display provides the renderer side of the clock: a text model of
// the digit display and the two-line message area, plus hardware and
// terminal front ends that draw it.
package display

import "github.com/sweeney/gamepad-clock/internal/logic"

// Line selects one of the two message lines.
type Line int

const (
	LineTop Line = iota
	LineBottom
)

// Renderer receives final text from the clock core.
type Renderer interface {
	// SetDigits sets the primary numeric display.
	SetDigits(text string)

	// SetMessage sets one line of the helper/status text area.
	SetMessage(text string, line Line)
}

// Apply hands a render directive to r.
func Apply(r Renderer, d logic.Directive) {
	r.SetDigits(d.Digits)
	r.SetMessage(d.Top, LineTop)
	r.SetMessage(d.Bottom, LineBottom)
}

// Multi fans every call out to several renderers.
type Multi []Renderer

// SetDigits forwards to every renderer.
func (m Multi) SetDigits(text string) {
	for _, r := range m {
		r.SetDigits(text)
	}
}

// SetMessage forwards to every renderer.
func (m Multi) SetMessage(text string, line Line) {
	for _, r := range m {
		r.SetMessage(text, line)
	}
}
