//go:build !cgo

package sim

import (
	"errors"

	"github.com/sweeney/gamepad-clock/internal/display"
)

// RunWindow is unavailable without cgo.
func RunWindow(_ *KeyboardPad, _ *display.Panel, _ func(tick uint32) error) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
