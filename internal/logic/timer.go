package logic

// Default hold timing in milliseconds.
const (
	DefaultHoldDelay      = 900
	DefaultRepeatInterval = 300
)

// InputEventKind classifies an InputEvent.
type InputEventKind int

const (
	EventPress InputEventKind = iota + 1
	EventRelease
	EventRepeat
)

func (k InputEventKind) String() string {
	switch k {
	case EventPress:
		return "press"
	case EventRelease:
		return "release"
	case EventRepeat:
		return "repeat"
	}
	return "unknown"
}

// InputEvent is an edge or hold-repeat notification for one symbol.
type InputEvent struct {
	Kind   InputEventKind
	Symbol Symbol
}

// Input converts a press or repeat event to machine input.
func (e InputEvent) Input() Input {
	return Input{Symbol: e.Symbol, Repeat: e.Kind == EventRepeat}
}

// HoldTimer accumulates how long the current pressed set has been held.
type HoldTimer struct {
	SinceChange uint32 // ms since the pressed set last changed
	SinceRepeat uint32 // ms since the last repeat pulse
}

// InputTimer turns button snapshots into press, release and hold-repeat events.
type InputTimer struct {
	holdDelay      uint32
	repeatInterval uint32

	prev      Buttons
	active    Symbol // symbol of the last press, until its release
	hold      HoldTimer
	repeating bool
}

// NewInputTimer creates an InputTimer. Repeating starts once a repeatable
// symbol has been held for holdDelay ms and then pulses every repeatInterval ms.
func NewInputTimer(holdDelay, repeatInterval uint32) *InputTimer {
	if repeatInterval == 0 {
		repeatInterval = DefaultRepeatInterval
	}
	return &InputTimer{
		holdDelay:      holdDelay,
		repeatInterval: repeatInterval,
	}
}

// Update processes one snapshot taken elapsed ms after the previous one and
// returns at most one edge event (press or release) and at most one repeat.
//
// A press needs a newly set bit and a pressed set that maps to a symbol, so
// letting go of one button of a chord never presses the button still held.
// A press that replaces the active symbol implies its release.
func (t *InputTimer) Update(buttons Buttons, elapsed uint32) []InputEvent {
	prev := t.prev
	t.prev = buttons

	if buttons != prev || buttons == 0 {
		t.hold = HoldTimer{}
		t.repeating = false
		if buttons == prev {
			return nil
		}

		if s := SymbolFor(buttons); s != SymbolNone && buttons&^prev != 0 {
			t.active = s
			return []InputEvent{{Kind: EventPress, Symbol: s}}
		}
		if s := t.active; s != SymbolNone {
			t.active = SymbolNone
			return []InputEvent{{Kind: EventRelease, Symbol: s}}
		}
		return nil
	}

	t.hold.SinceChange += elapsed
	t.hold.SinceRepeat += elapsed

	s := t.active
	if !Repeatable(s) {
		return nil
	}

	if !t.repeating {
		if t.hold.SinceChange < t.holdDelay {
			return nil
		}
		t.repeating = true
		// Carry the overshoot past the delay into the repeat cadence.
		t.hold.SinceRepeat = t.hold.SinceChange - t.holdDelay
		return []InputEvent{{Kind: EventRepeat, Symbol: s}}
	}

	if t.hold.SinceRepeat < t.repeatInterval {
		return nil
	}
	t.hold.SinceRepeat -= t.repeatInterval
	return []InputEvent{{Kind: EventRepeat, Symbol: s}}
}

// Hold returns the current accumulators.
func (t *InputTimer) Hold() HoldTimer {
	return t.hold
}

// Reset forgets the previous snapshot and all accumulators.
func (t *InputTimer) Reset() {
	t.prev = 0
	t.active = SymbolNone
	t.hold = HoldTimer{}
	t.repeating = false
}

// SymbolFor maps a pressed set to a symbol. Only single buttons and the
// designated A+B combo map to a symbol; any other combination is ambiguous
// and yields SymbolNone.
func SymbolFor(b Buttons) Symbol {
	switch b {
	case ButtonUp:
		return SymbolUp
	case ButtonDown:
		return SymbolDown
	case ButtonLeft:
		return SymbolLeft
	case ButtonRight:
		return SymbolRight
	case ButtonA:
		return SymbolA
	case ButtonB:
		return SymbolB
	case ButtonA | ButtonB:
		return SymbolAB
	case ButtonSelect:
		return SymbolSelect
	case ButtonStart:
		return SymbolStart
	}
	return SymbolNone
}

// Repeatable reports whether holding s produces repeat pulses.
func Repeatable(s Symbol) bool {
	return s == SymbolUp || s == SymbolDown
}
