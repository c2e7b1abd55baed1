package logic

import (
	"fmt"
	"time"
)

// Representable year range. The RTC chip stores the year as a two-digit BCD
// offset from 2000, and the appliance must stay below the signed 32-bit
// seconds-since-epoch rollover in January 2038.
const (
	MinYear = 2000
	MaxYear = 2037
)

// WallClock is a calendar timestamp with one-second resolution.
// It is always handled by value: the RTC owns the live time.
type WallClock struct {
	Year   int
	Month  int // 1-12
	Day    int // 1-31, month/year dependent
	Hour   int // 0-23
	Minute int // 0-59
	Second int // 0-59
}

// FromTime converts t (in its own location) to a WallClock.
func FromTime(t time.Time) WallClock {
	return WallClock{
		Year:   t.Year(),
		Month:  int(t.Month()),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
	}
}

// Time returns w as a UTC time.Time. Out-of-range fields are normalized by
// time.Date, so callers should check Valid first.
func (w WallClock) Time() time.Time {
	return time.Date(w.Year, time.Month(w.Month), w.Day, w.Hour, w.Minute, w.Second, 0, time.UTC)
}

// Valid reports whether w is a calendar-valid combination within
// [MinYear, MaxYear].
func (w WallClock) Valid() bool {
	if w.Year < MinYear || w.Year > MaxYear {
		return false
	}
	if w.Month < 1 || w.Month > 12 {
		return false
	}
	if w.Day < 1 || w.Day > DaysIn(w.Year, w.Month) {
		return false
	}
	return w.Hour >= 0 && w.Hour <= 23 &&
		w.Minute >= 0 && w.Minute <= 59 &&
		w.Second >= 0 && w.Second <= 59
}

// Weekday returns the day of the week of w.
func (w WallClock) Weekday() time.Weekday {
	return w.Time().Weekday()
}

func (w WallClock) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", w.Year, w.Month, w.Day, w.Hour, w.Minute, w.Second)
}

// DaysIn returns the number of days in the given month, accounting for leap years.
func DaysIn(year, month int) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
