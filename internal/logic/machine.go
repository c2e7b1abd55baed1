package logic

import (
	"errors"
	"fmt"
)

// ErrUnknownSymbol is reported for input outside the declared alphabet.
var ErrUnknownSymbol = errors.New("input symbol out of range")

// ActionKind is the kind of response the transition table holds.
type ActionKind int

const (
	ActionNOP ActionKind = iota
	ActionGoto
	ActionAdjust
	ActionRoundToMinute
)

func (k ActionKind) String() string {
	switch k {
	case ActionNOP:
		return "NOP"
	case ActionGoto:
		return "GOTO"
	case ActionAdjust:
		return "ADJUST"
	case ActionRoundToMinute:
		return "ROUND"
	}
	return "INVALID"
}

// Response is one entry of the transition table. The zero value is NOP.
type Response struct {
	Kind      ActionKind
	Next      State // ActionGoto
	Field     Field // ActionAdjust
	Direction int   // ActionAdjust: +1 or -1
}

func nop() Response { return Response{} }
func goTo(s State) Response { return Response{Kind: ActionGoto, Next: s} }
func adjust(f Field, d int) Response { return Response{Kind: ActionAdjust, Field: f, Direction: d} }
func roundToMinute() Response { return Response{Kind: ActionRoundToMinute, Field: FieldSecond} }

// table maps (state, symbol) to a response. Entries never assigned stay NOP,
// so every pair in the declared alphabet has a defined response.
var table = buildTable()

func buildTable() (t [numStates][numSymbols]Response) {
	for _, s := range liveOrder {
		row := &t[s]
		row[SymbolLeft] = goTo(cycle(liveOrder, s, -1))
		row[SymbolRight] = goTo(cycle(liveOrder, s, +1))
		row[SymbolA] = goTo(editFor(s))
		row[SymbolSelect] = goTo(editFor(s))
		row[SymbolB] = goTo(StateTime)
		row[SymbolStart] = goTo(StateEditMinute)
		row[SymbolAB] = goTo(StateDemo)
	}

	for _, s := range editOrder {
		row := &t[s]
		f := s.EditField()
		if f == FieldSecond {
			row[SymbolUp] = roundToMinute()
			row[SymbolDown] = roundToMinute()
		} else {
			row[SymbolUp] = adjust(f, +1)
			row[SymbolDown] = adjust(f, -1)
		}
		row[SymbolLeft] = goTo(cycle(editOrder, s, -1))
		row[SymbolRight] = goTo(cycle(editOrder, s, +1))
		row[SymbolA] = goTo(cycle(editOrder, s, +1))
		row[SymbolB] = goTo(StateTime)
		row[SymbolStart] = goTo(StateTime)
		row[SymbolAB] = goTo(StateDemo)
	}

	t[StateDemo][SymbolB] = goTo(StateTime)
	return t
}

// editFor returns the edit state entered from a live view.
func editFor(s State) State {
	switch s {
	case StateTime:
		return StateEditHour
	case StateMonth:
		return StateEditMonth
	case StateDay:
		return StateEditDay
	}
	return StateEditYear
}

// Lookup returns the table response for (s, sym). Out-of-range pairs are NOP.
func Lookup(s State, sym Symbol) Response {
	if s < 0 || s >= numStates || !sym.Valid() {
		return nop()
	}
	return table[s][sym]
}

// Outcome is the result of handling one input.
type Outcome struct {
	Response     Response
	StateChanged bool
	Write        *WallClock // new time to write to the RTC, if any
	Render       *Directive // display update, if any
	Err          error      // edit discarded
}

// NOP reports whether the outcome has no effect at all.
func (o Outcome) NOP() bool {
	return !o.StateChanged && o.Write == nil && o.Render == nil
}

// Machine is the menu/edit state machine. It owns the current State.
type Machine struct {
	state State
}

// NewMachine creates a machine in the initial StateTime.
func NewMachine() *Machine {
	return &Machine{state: StateTime}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Handle applies one input. now is a snapshot of the RTC; Handle never keeps
// it. Hold-repeat pulses only drive field adjustments.
func (m *Machine) Handle(in Input, now WallClock) Outcome {
	if !in.Symbol.Valid() {
		return Outcome{Err: fmt.Errorf("%w: %d", ErrUnknownSymbol, in.Symbol)}
	}

	r := Lookup(m.state, in.Symbol)
	if in.Repeat && r.Kind != ActionAdjust {
		return Outcome{}
	}

	switch r.Kind {
	case ActionGoto:
		prev := m.state
		m.state = r.Next
		d := Project(m.state, now)
		return Outcome{Response: r, StateChanged: prev != m.state, Render: &d}

	case ActionAdjust:
		next, err := Adjust(now, r.Field, r.Direction*StepSize(r.Field, in.Repeat))
		return m.edited(r, now, next, err)

	case ActionRoundToMinute:
		next, err := RoundToMinute(now)
		return m.edited(r, now, next, err)
	}

	return Outcome{}
}

func (m *Machine) edited(r Response, prev, next WallClock, err error) Outcome {
	if err != nil {
		return Outcome{Response: r, Err: err}
	}
	if next == prev {
		// Clamped at a bound: nothing to write or redraw.
		return Outcome{Response: r}
	}
	d := Project(m.state, next)
	return Outcome{Response: r, Write: &next, Render: &d}
}

// Project returns the render directive for the current state.
func (m *Machine) Project(now WallClock) Directive {
	return Project(m.state, now)
}
