package logic

import (
	"fmt"
	"strings"
)

// Helper text shown on the two message lines in edit states. 0x7F is the
// up/down arrow glyph of the message font.
const (
	HelpAdjust = "\x7f:+/-  B:Exit  A:OK"
	HelpRound  = "\x7f:=00  B:Exit  A:OK"
)

// Directive is the complete text payload for the display: the primary digit
// string and the two message lines. Directives are idempotent; applying the
// same directive twice must not change what the renderer shows.
type Directive struct {
	Digits string
	Top    string
	Bottom string
}

var editTitles = map[State]string{
	StateEditYear:   "   SET       YEAR",
	StateEditMonth:  "   SET      MONTH",
	StateEditDay:    "   SET        DAY",
	StateEditHour:   "   SET      HOURS",
	StateEditMinute: "   SET    MINUTES",
	StateEditSecond: "   SET    SECONDS",
}

// Project returns the directive for state s at wall clock w.
func Project(s State, w WallClock) Directive {
	switch s {
	case StateTime:
		return Directive{Digits: fmt.Sprintf("%02d:%02d", w.Hour, w.Minute)}
	case StateDateTime:
		return Directive{Digits: fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
			w.Year, w.Month, w.Day, w.Hour, w.Minute, w.Second)}
	case StateYear:
		return Directive{Digits: fmt.Sprintf(" %04d", w.Year)}
	case StateMonth:
		return Directive{Digits: fmt.Sprintf(" %02d-%02d", w.Month, w.Day)}
	case StateDay:
		return Directive{
			Digits: fmt.Sprintf("   %02d", w.Day),
			Top:    strings.ToUpper(w.Weekday().String()),
		}
	case StateDemo:
		return Directive{Digits: "88:88:88", Top: "      DEMO", Bottom: "B:Exit"}
	}

	if s.IsEdit() {
		d := Directive{Top: editTitles[s], Bottom: HelpAdjust}
		switch s {
		case StateEditYear:
			d.Digits = fmt.Sprintf("   %04d", w.Year)
		case StateEditMonth, StateEditDay:
			d.Digits = fmt.Sprintf("  %02d-%02d", w.Month, w.Day)
		default:
			d.Digits = fmt.Sprintf("%02d:%02d:%02d", w.Hour, w.Minute, w.Second)
		}
		if s == StateEditSecond {
			d.Bottom = HelpRound
		}
		return d
	}

	return Directive{}
}
