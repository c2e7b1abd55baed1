package gamepad

import (
	"errors"

	"github.com/sweeney/gamepad-clock/internal/logic"
)

// FakePad is a test double that returns scripted button snapshots.
type FakePad struct {
	// Samples contains scripted snapshots. Each Poll consumes the next one;
	// once exhausted, the last sample repeats.
	Samples []Sample

	// index tracks current position in Samples
	index int

	// ConnectErrors are returned by successive Connect calls before it
	// succeeds.
	ConnectErrors []error

	// PollError, if set, is returned by every Poll.
	PollError error

	Connected    bool
	Closed       bool
	ConnectCalls int
	PollCalls    int
}

// Sample is one scripted Poll result.
type Sample struct {
	Buttons    logic.Buttons
	Disconnect bool // Poll returns ErrDisconnected and the pad drops
}

// NewFakePad creates a connected FakePad with the given samples.
func NewFakePad(samples ...Sample) *FakePad {
	return &FakePad{Samples: samples, Connected: true}
}

// Press is shorthand for a sample of pressed buttons.
func Press(b logic.Buttons) Sample {
	return Sample{Buttons: b}
}

// Connect consumes the next scripted error, or connects.
func (f *FakePad) Connect() error {
	f.ConnectCalls++
	if len(f.ConnectErrors) > 0 {
		err := f.ConnectErrors[0]
		f.ConnectErrors = f.ConnectErrors[1:]
		if err != nil {
			return err
		}
	}
	f.Connected = true
	f.Closed = false
	return nil
}

// Poll returns the next scripted sample.
func (f *FakePad) Poll() (logic.Buttons, error) {
	f.PollCalls++
	if !f.Connected {
		return 0, ErrDisconnected
	}
	if f.PollError != nil {
		return 0, f.PollError
	}
	if len(f.Samples) == 0 {
		return 0, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}

	if sample.Disconnect {
		f.Connected = false
		return 0, ErrDisconnected
	}
	return sample.Buttons, nil
}

// Close marks the pad as closed and disconnected.
func (f *FakePad) Close() error {
	f.Closed = true
	f.Connected = false
	return nil
}

// Reset rewinds the samples.
func (f *FakePad) Reset() {
	f.index = 0
	f.Closed = false
	f.Connected = true
}
