// Package rtc reads and sets the clock's wall time. The hardware
// implementation talks to a PCF8523 over I2C; the system implementation keeps
// an offset against the host clock for development and the simulator.
package rtc

import "github.com/sweeney/gamepad-clock/internal/logic"

// Clock is the real-time clock collaborator.
type Clock interface {
	// Get returns the current wall time.
	Get() (logic.WallClock, error)

	// Set replaces the wall time.
	Set(logic.WallClock) error
}
