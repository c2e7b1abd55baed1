package logic

import (
	"errors"
	"fmt"
	"time"
)

// ErrOutOfRange is returned when a WallClock handed to the editor is not
// calendar-valid or lies outside [MinYear, MaxYear].
var ErrOutOfRange = errors.New("wall clock out of representable range")

// StepSize returns the per-press delta for a field. Hold-repeat pulses use a
// larger step so long holds accelerate.
func StepSize(f Field, repeat bool) int {
	if !repeat {
		return 1
	}
	switch f {
	case FieldYear:
		return 5
	case FieldMonth:
		return 3
	case FieldDay:
		return 10
	case FieldHour:
		return 4
	case FieldMinute, FieldSecond:
		return 10
	}
	return 1
}

// Adjust applies a signed delta to exactly one field of wc.
//
// The moved value is computed with calendar arithmetic and then clamped so the
// edit never carries into a neighbouring field: days stay inside the current
// month, hours inside the current day, and so on. Years clamp to
// [MinYear, MaxYear] and never wrap.
func Adjust(wc WallClock, f Field, delta int) (WallClock, error) {
	if !wc.Valid() {
		return wc, fmt.Errorf("adjust %s: %w: %s", f, ErrOutOfRange, wc)
	}
	if delta == 0 {
		return wc, nil
	}

	out := wc
	t := wc.Time()

	switch f {
	case FieldYear:
		out.Year = clamp(wc.Year+delta, MinYear, MaxYear)
		// Feb 29 on a non-leap target year becomes Feb 28.
		out.Day = min(wc.Day, DaysIn(out.Year, out.Month))

	case FieldMonth:
		out.Month = clamp(wc.Month+delta, 1, 12)
		out.Day = min(wc.Day, DaysIn(out.Year, out.Month))

	case FieldDay:
		moved := t.AddDate(0, 0, delta)
		if moved.Year() == wc.Year && int(moved.Month()) == wc.Month {
			out.Day = moved.Day()
		} else if delta > 0 {
			out.Day = DaysIn(wc.Year, wc.Month)
		} else {
			out.Day = 1
		}

	case FieldHour:
		moved := t.Add(time.Duration(delta) * time.Hour)
		if sameDay(t, moved) {
			out.Hour = moved.Hour()
		} else if delta > 0 {
			out.Hour = 23
		} else {
			out.Hour = 0
		}

	case FieldMinute:
		moved := t.Add(time.Duration(delta) * time.Minute)
		if sameDay(t, moved) && moved.Hour() == wc.Hour {
			out.Minute = moved.Minute()
		} else if delta > 0 {
			out.Minute = 59
		} else {
			out.Minute = 0
		}

	case FieldSecond:
		moved := t.Add(time.Duration(delta) * time.Second)
		if sameDay(t, moved) && moved.Hour() == wc.Hour && moved.Minute() == wc.Minute {
			out.Second = moved.Second()
		} else if delta > 0 {
			out.Second = 59
		} else {
			out.Second = 0
		}

	default:
		return wc, fmt.Errorf("adjust: unknown field %d", f)
	}

	return out, nil
}

// RoundToMinute rounds the seconds of wc to the nearest minute boundary:
// seconds <= 30 round down to :00, anything later rounds up into the next
// minute. Rounding up carries like a normal clock tick, so 23:59:45 becomes
// 00:00:00 of the following day.
func RoundToMinute(wc WallClock) (WallClock, error) {
	if !wc.Valid() {
		return wc, fmt.Errorf("round to minute: %w: %s", ErrOutOfRange, wc)
	}

	delta := RoundDelta(wc.Second)
	out := FromTime(wc.Time().Add(time.Duration(delta) * time.Second))
	if !out.Valid() {
		return wc, fmt.Errorf("round to minute: %w: %s", ErrOutOfRange, out)
	}
	return out, nil
}

// RoundDelta returns the seconds delta that moves sec to the nearest minute.
func RoundDelta(sec int) int {
	if sec <= 30 {
		return -sec
	}
	return 60 - sec
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
