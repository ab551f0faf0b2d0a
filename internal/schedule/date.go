package schedule

import (
	"fmt"
	"time"
)

// Date is a calendar date without time-of-day or location. It is a
// comparable value type, safe for use as a map key (unlike time.Time,
// whose == also compares the location pointer).
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Time returns the midnight instant of d in loc.
func (d Date) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	// Route through time.Date so month/year rollover is handled for us.
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

// Weekday returns the weekday of d.
func (d Date) Weekday() time.Weekday {
	return d.Time(time.UTC).Weekday()
}

// Compare orders dates chronologically: -1 if d < o, 0 if equal, +1 if d > o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(int(d.Month) - int(o.Month))
	default:
		return sign(d.Day - o.Day)
	}
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// String formats d as "2006-01-02".
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay is a wall-clock time with minute precision, matching the
// resolution of the source formats (ISO timestamps and "HH:MM" fields).
type TimeOfDay struct {
	Hour   int
	Minute int
}

// TimeOfDayOf extracts the time-of-day of t, dropping seconds.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}
}

// Compare orders times of day: -1 if t < o, 0 if equal, +1 if t > o.
func (t TimeOfDay) Compare(o TimeOfDay) int {
	if t.Hour != o.Hour {
		return sign(t.Hour - o.Hour)
	}
	return sign(t.Minute - o.Minute)
}

// String formats t as "15:04".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Interval is a (start, end) time-of-day pair extracted from a class
// record. The grid builder makes no ordering assumption: a degenerate
// or reversed interval is carried through unchanged.
type Interval struct {
	Start TimeOfDay
	End   TimeOfDay
}

// IntervalOf extracts the interval of a record's start/end instants.
func IntervalOf(start, end time.Time) Interval {
	return Interval{Start: TimeOfDayOf(start), End: TimeOfDayOf(end)}
}

// Compare orders intervals ascending by start, ties broken by end.
func (iv Interval) Compare(o Interval) int {
	if c := iv.Start.Compare(o.Start); c != 0 {
		return c
	}
	return iv.End.Compare(o.End)
}

// String formats iv as "15:04-16:04".
func (iv Interval) String() string {
	return iv.Start.String() + "-" + iv.End.String()
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
