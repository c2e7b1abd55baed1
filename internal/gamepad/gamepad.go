// Package gamepad provides button input with hardware abstraction.
// The real implementation reads one GPIO line per button through the Linux
// GPIO character device. The fake implementation allows testing without
// hardware.
package gamepad

import (
	"errors"

	"github.com/sweeney/gamepad-clock/internal/logic"
)

// ErrDisconnected is returned by Poll when the device has gone away. The
// caller should Connect again before polling.
var ErrDisconnected = errors.New("gamepad: disconnected")

// Pad is a polled gamepad.
type Pad interface {
	// Connect discovers and opens the device.
	Connect() error

	// Poll returns the currently pressed buttons (1 = pressed).
	Poll() (logic.Buttons, error)

	// Close releases device resources. The pad may be connected again.
	Close() error
}

// PinMap assigns a GPIO line offset to each button.
type PinMap map[logic.Buttons]int

// DefaultChip is the GPIO chip the buttons are wired to.
const DefaultChip = "gpiochip0"

// DefaultPins is the BCM wiring of the button header.
var DefaultPins = PinMap{
	logic.ButtonUp:     17,
	logic.ButtonDown:   27,
	logic.ButtonLeft:   22,
	logic.ButtonRight:  23,
	logic.ButtonA:      5,
	logic.ButtonB:      6,
	logic.ButtonSelect: 13,
	logic.ButtonStart:  19,
}
