package schedule

import (
	"sort"

	"fitcal/internal/model"
)

// CellKey addresses one cell of the weekly grid.
type CellKey struct {
	Day      Date
	Interval Interval
}

// GridModel is the week view produced by BuildGrid and consumed by the
// renderer.
//
// Invariants:
//   - Days has length exactly 7: consecutive ascending dates starting
//     on a Monday.
//   - Intervals holds the distinct (start, end) pairs observed across
//     the input records, sorted ascending by start then end. Rows are
//     driven by actual data, not a fixed time grid.
//   - Every Cells key is drawn from Days x Intervals.
type GridModel struct {
	Days      []Date
	Intervals []Interval
	Cells     map[CellKey]model.ClassRecord

	// Highlighted is the date the renderer should visually emphasize.
	// Comparison against Days is date-only.
	Highlighted Date
}

// IsHighlighted reports whether day should be emphasized by the renderer.
func (g GridModel) IsHighlighted(day Date) bool {
	return day == g.Highlighted
}

// Cell returns the record occupying (day, interval), if any.
func (g GridModel) Cell(day Date, interval Interval) (model.ClassRecord, bool) {
	rec, ok := g.Cells[CellKey{Day: day, Interval: interval}]
	return rec, ok
}

// BuildGrid buckets records into a 7-day week grid.
//
// The displayed week is the Monday-aligned week of the latest start
// date among the records; records from earlier weeks keep contributing
// interval rows but get no cell, since lookups are restricted to the
// displayed days. With no records at all, the week containing
// highlighted is shown with zero populated cells.
//
// When two records share a (day, interval) key, the later record in
// input order wins.
//
// BuildGrid is pure: it never mutates records and is deterministic for
// a given input order.
func BuildGrid(records []model.ClassRecord, highlighted Date) GridModel {
	buckets := make(map[Date][]model.ClassRecord)
	for _, rec := range records {
		day := DateOf(rec.Start)
		buckets[day] = append(buckets[day], rec)
	}

	var days []Date
	if len(buckets) > 0 {
		var latest Date
		first := true
		for day := range buckets {
			if first || day.After(latest) {
				latest = day
				first = false
			}
		}
		days = WeekWindowFor(latest).Days()
	} else {
		days = WeekWindowFor(highlighted).Days()
	}
	// Already a contiguous ascending run; sorting guards against a
	// future reordering of the construction above.
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	// Interval rows come from every input record, including ones whose
	// date fell outside the displayed week.
	seen := make(map[Interval]struct{})
	intervals := make([]Interval, 0)
	for _, rec := range records {
		iv := IntervalOf(rec.Start, rec.End)
		if _, dup := seen[iv]; dup {
			continue
		}
		seen[iv] = struct{}{}
		intervals = append(intervals, iv)
	}
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].Compare(intervals[j]) < 0 })

	cells := make(map[CellKey]model.ClassRecord)
	for _, day := range days {
		for _, rec := range buckets[day] {
			key := CellKey{Day: day, Interval: IntervalOf(rec.Start, rec.End)}
			cells[key] = rec
		}
	}

	return GridModel{
		Days:        days,
		Intervals:   intervals,
		Cells:       cells,
		Highlighted: highlighted,
	}
}
