package rtc

import "github.com/sweeney/gamepad-clock/internal/logic"

// FakeClock is a test double holding the time in memory.
type FakeClock struct {
	Now logic.WallClock

	// GetError / SetError, if set, are returned by Get / Set.
	GetError error
	SetError error

	GetCalls int
	SetCalls int

	// Writes records every value passed to a successful Set.
	Writes []logic.WallClock
}

// NewFakeClock creates a FakeClock showing wc.
func NewFakeClock(wc logic.WallClock) *FakeClock {
	return &FakeClock{Now: wc}
}

// Get returns Now.
func (f *FakeClock) Get() (logic.WallClock, error) {
	f.GetCalls++
	if f.GetError != nil {
		return logic.WallClock{}, f.GetError
	}
	return f.Now, nil
}

// Set replaces Now.
func (f *FakeClock) Set(wc logic.WallClock) error {
	f.SetCalls++
	if f.SetError != nil {
		return f.SetError
	}
	f.Now = wc
	f.Writes = append(f.Writes, wc)
	return nil
}
