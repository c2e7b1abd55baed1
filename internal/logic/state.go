package logic

// State is the current menu state of the clock.
type State int

const (
	StateTime State = iota // HH:MM, initial
	StateDateTime
	StateYear
	StateMonth
	StateDay
	StateEditYear
	StateEditMonth
	StateEditDay
	StateEditHour
	StateEditMinute
	StateEditSecond
	StateDemo

	numStates
)

// States lists every state in table order.
var States = []State{
	StateTime, StateDateTime, StateYear, StateMonth, StateDay,
	StateEditYear, StateEditMonth, StateEditDay,
	StateEditHour, StateEditMinute, StateEditSecond,
	StateDemo,
}

var stateNames = [...]string{
	StateTime:       "TIME",
	StateDateTime:   "DATETIME",
	StateYear:       "YEAR",
	StateMonth:      "MONTH",
	StateDay:        "DAY",
	StateEditYear:   "SET_YEAR",
	StateEditMonth:  "SET_MONTH",
	StateEditDay:    "SET_DAY",
	StateEditHour:   "SET_HOUR",
	StateEditMinute: "SET_MINUTE",
	StateEditSecond: "SET_SECOND",
	StateDemo:       "DEMO",
}

func (s State) String() string {
	if s < 0 || s >= numStates {
		return "INVALID"
	}
	return stateNames[s]
}

// IsLive reports whether s is a non-editing view.
func (s State) IsLive() bool {
	return s >= StateTime && s <= StateDay
}

// IsEdit reports whether s edits a WallClock field.
func (s State) IsEdit() bool {
	return s >= StateEditYear && s <= StateEditSecond
}

// EditField returns the field edited in s, or FieldNone.
func (s State) EditField() Field {
	switch s {
	case StateEditYear:
		return FieldYear
	case StateEditMonth:
		return FieldMonth
	case StateEditDay:
		return FieldDay
	case StateEditHour:
		return FieldHour
	case StateEditMinute:
		return FieldMinute
	case StateEditSecond:
		return FieldSecond
	}
	return FieldNone
}

// liveOrder is the LEFT/RIGHT cycle of live views.
var liveOrder = []State{StateTime, StateDateTime, StateYear, StateMonth, StateDay}

// editOrder is the A/RIGHT chain of edit states.
var editOrder = []State{
	StateEditYear, StateEditMonth, StateEditDay,
	StateEditHour, StateEditMinute, StateEditSecond,
}

func cycle(order []State, s State, step int) State {
	for i, o := range order {
		if o == s {
			n := len(order)
			return order[((i+step)%n+n)%n]
		}
	}
	return s
}
