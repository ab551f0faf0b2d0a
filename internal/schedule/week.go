package schedule

import (
	"fitcal/internal/model"
)

// WeekWindow is a Monday-aligned 7-day window. End is always
// Start + 6 days. Windows are derived values and never persisted.
type WeekWindow struct {
	Start Date
	End   Date
}

// WeekWindowFor returns the Monday-aligned week containing date.
func WeekWindowFor(date Date) WeekWindow {
	// time.Weekday counts Sunday as 0; shift so Monday is 0.
	offset := (int(date.Weekday()) + 6) % 7
	start := date.AddDays(-offset)
	return WeekWindow{Start: start, End: start.AddDays(6)}
}

// Contains reports whether d falls within the window, inclusive on
// both ends.
func (w WeekWindow) Contains(d Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days returns the window's 7 consecutive dates, Monday first.
func (w WeekWindow) Days() []Date {
	days := make([]Date, 7)
	for i := range days {
		days[i] = w.Start.AddDays(i)
	}
	return days
}

// FilterByWeek selects the records whose start date (time-of-day
// ignored) falls within window. Relative order is preserved and the
// input is left untouched.
func FilterByWeek(records []model.ClassRecord, window WeekWindow) []model.ClassRecord {
	out := make([]model.ClassRecord, 0, len(records))
	for _, rec := range records {
		if window.Contains(DateOf(rec.Start)) {
			out = append(out, rec)
		}
	}
	return out
}

// DateRange returns the earliest and latest start dates across
// records, used to bound the date picker. ok is false when records is
// empty.
func DateRange(records []model.ClassRecord) (min, max Date, ok bool) {
	for i, rec := range records {
		d := DateOf(rec.Start)
		if i == 0 {
			min, max = d, d
			continue
		}
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min, max, len(records) > 0
}
