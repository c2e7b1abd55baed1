// Package sim runs the clock in a desktop window: the keyboard stands in for
// the gamepad and the window shows the panel.
package sim

import (
	"sync"

	"github.com/sweeney/gamepad-clock/internal/logic"
)

// KeyboardPad is a gamepad fed from the window's keyboard state.
type KeyboardPad struct {
	mu      sync.Mutex
	buttons logic.Buttons
}

// NewKeyboardPad creates a pad with nothing pressed.
func NewKeyboardPad() *KeyboardPad {
	return &KeyboardPad{}
}

// Set replaces the pressed set.
func (k *KeyboardPad) Set(b logic.Buttons) {
	k.mu.Lock()
	k.buttons = b
	k.mu.Unlock()
}

// Connect always succeeds; the keyboard is always there.
func (k *KeyboardPad) Connect() error {
	return nil
}

// Poll returns the pressed set.
func (k *KeyboardPad) Poll() (logic.Buttons, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.buttons, nil
}

// Close releases every button so a stale key can't repeat after reconnect.
func (k *KeyboardPad) Close() error {
	k.Set(0)
	return nil
}

// KeyBinding names the key for each button, for help output.
var KeyBinding = []struct {
	Button logic.Buttons
	Key    string
}{
	{logic.ButtonUp, "Up"},
	{logic.ButtonDown, "Down"},
	{logic.ButtonLeft, "Left"},
	{logic.ButtonRight, "Right"},
	{logic.ButtonA, "Z"},
	{logic.ButtonB, "X"},
	{logic.ButtonStart, "Enter"},
	{logic.ButtonSelect, "Shift"},
}
