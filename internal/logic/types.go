// Package logic contains the pure interaction core of the gamepad clock:
// button hold timing, the menu/edit state machine and bounded wall-clock
// arithmetic. This package has NO external dependencies (no GPIO, I2C, MQTT,
// OS, or time.Sleep). Time is always injectable via parameters.
package logic

import "time"

// Buttons is a bitmask of logical gamepad buttons (1 = pressed).
type Buttons uint16

const (
	ButtonUp Buttons = 1 << iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonB
	ButtonSelect
	ButtonStart
)

// Symbol is an abstract input symbol consumed by the state machine.
type Symbol int

const (
	SymbolNone Symbol = iota // out of alphabet
	SymbolUp
	SymbolDown
	SymbolLeft
	SymbolRight
	SymbolA
	SymbolB
	SymbolAB
	SymbolSelect
	SymbolStart

	numSymbols
)

// Symbols lists the declared input alphabet in table order.
var Symbols = []Symbol{
	SymbolUp, SymbolDown, SymbolLeft, SymbolRight,
	SymbolA, SymbolB, SymbolAB, SymbolSelect, SymbolStart,
}

var symbolNames = [...]string{
	SymbolNone:   "NONE",
	SymbolUp:     "UP",
	SymbolDown:   "DOWN",
	SymbolLeft:   "LEFT",
	SymbolRight:  "RIGHT",
	SymbolA:      "A",
	SymbolB:      "B",
	SymbolAB:     "AB",
	SymbolSelect: "SELECT",
	SymbolStart:  "START",
}

// Valid reports whether s belongs to the declared input alphabet.
func (s Symbol) Valid() bool {
	return s > SymbolNone && s < numSymbols
}

func (s Symbol) String() string {
	if s < 0 || s >= numSymbols {
		return "INVALID"
	}
	return symbolNames[s]
}

// Input is one symbol delivered to the state machine.
type Input struct {
	Symbol Symbol
	Repeat bool // true for hold-repeat pulses, false for press edges
}

// Field identifies one editable WallClock field.
type Field int

const (
	FieldNone Field = iota
	FieldYear
	FieldMonth
	FieldDay
	FieldHour
	FieldMinute
	FieldSecond
)

var fieldNames = [...]string{
	FieldNone:   "",
	FieldYear:   "YEAR",
	FieldMonth:  "MONTH",
	FieldDay:    "DAY",
	FieldHour:   "HOUR",
	FieldMinute: "MINUTE",
	FieldSecond: "SECOND",
}

func (f Field) String() string {
	if f < 0 || int(f) >= len(fieldNames) {
		return "INVALID"
	}
	return fieldNames[f]
}

// EventType identifies a clock event to be published.
type EventType string

const (
	EventStateChange EventType = "STATE"
	EventEdit        EventType = "EDIT"
)

// Event represents a user-visible change of the clock: a menu state change or
// an RTC edit.
type Event struct {
	Timestamp time.Time
	Type      EventType
	State     State
	Field     Field     // set for EventEdit
	Value     WallClock // wall clock after the event
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
}
