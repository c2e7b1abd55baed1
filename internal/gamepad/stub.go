//go:build !linux

package gamepad

import (
	"errors"

	"github.com/sweeney/gamepad-clock/internal/logic"
)

// RealPad is not available on non-Linux platforms.
type RealPad struct{}

// NewRealPad returns a pad whose Connect always fails on non-Linux platforms.
func NewRealPad(chipName string, pins PinMap) *RealPad {
	return &RealPad{}
}

// Connect is not implemented on non-Linux platforms.
func (p *RealPad) Connect() error {
	return errors.New("gamepad: gpio not supported on this platform (requires Linux)")
}

// Poll is not implemented on non-Linux platforms.
func (p *RealPad) Poll() (logic.Buttons, error) {
	return 0, ErrDisconnected
}

// Close is not implemented on non-Linux platforms.
func (p *RealPad) Close() error {
	return nil
}
