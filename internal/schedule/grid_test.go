package schedule

import (
	"testing"
	"time"

	"fitcal/internal/model"
)

func checkWeekShape(t *testing.T, days []Date) {
	t.Helper()
	if len(days) != 7 {
		t.Fatalf("len(Days) = %d, want 7", len(days))
	}
	if days[0].Weekday() != time.Monday {
		t.Errorf("Days[0] = %v (%v), want a Monday", days[0], days[0].Weekday())
	}
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDays(1) != days[i] {
			t.Errorf("Days not contiguous at %d: %v -> %v", i, days[i-1], days[i])
		}
	}
}

func TestBuildGrid_SingleRecord(t *testing.T) {
	rec := classAt("Yoga Flow", time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC), time.Hour)
	highlighted := Date{2024, time.March, 6}

	grid := BuildGrid([]model.ClassRecord{rec}, highlighted)

	checkWeekShape(t, grid.Days)
	if grid.Days[0] != (Date{2024, time.March, 4}) {
		t.Errorf("Days[0] = %v, want 2024-03-04", grid.Days[0])
	}
	if grid.Days[6] != (Date{2024, time.March, 10}) {
		t.Errorf("Days[6] = %v, want 2024-03-10", grid.Days[6])
	}

	wantInterval := Interval{Start: TimeOfDay{9, 0}, End: TimeOfDay{10, 0}}
	if len(grid.Intervals) != 1 || grid.Intervals[0] != wantInterval {
		t.Fatalf("Intervals = %v, want [%v]", grid.Intervals, wantInterval)
	}

	got, ok := grid.Cell(Date{2024, time.March, 6}, wantInterval)
	if !ok || got.Name != "Yoga Flow" {
		t.Errorf("Cell(Wed, 09:00-10:00) = %v, %v; want the record", got, ok)
	}
	if len(grid.Cells) != 1 {
		t.Errorf("len(Cells) = %d, want 1 (all other cells empty)", len(grid.Cells))
	}
	if !grid.IsHighlighted(highlighted) {
		t.Error("highlighted Wednesday not flagged")
	}
	if grid.IsHighlighted(Date{2024, time.March, 5}) {
		t.Error("non-highlighted day flagged")
	}
}

func TestBuildGrid_EmptyInputFallsBackToHighlightedWeek(t *testing.T) {
	grid := BuildGrid(nil, Date{2024, time.March, 6})

	checkWeekShape(t, grid.Days)
	if grid.Days[0] != (Date{2024, time.March, 4}) {
		t.Errorf("Days[0] = %v, want 2024-03-04", grid.Days[0])
	}
	if len(grid.Intervals) != 0 {
		t.Errorf("Intervals = %v, want empty", grid.Intervals)
	}
	if len(grid.Cells) != 0 {
		t.Errorf("Cells = %v, want empty", grid.Cells)
	}
}

func TestBuildGrid_LatestWeekWins(t *testing.T) {
	early := classAt("Early Spin", time.Date(2024, 2, 26, 18, 0, 0, 0, time.UTC), time.Hour)
	late := classAt("Late Pilates", time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC), time.Hour)

	grid := BuildGrid([]model.ClassRecord{early, late}, Date{2024, time.January, 1})

	checkWeekShape(t, grid.Days)
	if grid.Days[0] != (Date{2024, time.March, 4}) {
		t.Errorf("Days[0] = %v, want the later record's week (2024-03-04)", grid.Days[0])
	}

	// The earlier record still contributes an interval row.
	earlyInterval := Interval{Start: TimeOfDay{18, 0}, End: TimeOfDay{19, 0}}
	found := false
	for _, iv := range grid.Intervals {
		if iv == earlyInterval {
			found = true
		}
	}
	if !found {
		t.Errorf("Intervals = %v, missing out-of-week interval %v", grid.Intervals, earlyInterval)
	}

	// But it occupies no cell: its date is not among the displayed days.
	if _, ok := grid.Cell(Date{2024, time.February, 26}, earlyInterval); ok {
		t.Error("out-of-week record unexpectedly present in Cells")
	}
	if len(grid.Cells) != 1 {
		t.Errorf("len(Cells) = %d, want 1", len(grid.Cells))
	}
}

func TestBuildGrid_IntervalsSortedAndDistinct(t *testing.T) {
	mk := func(h, m, eh, em int) model.ClassRecord {
		start := time.Date(2024, 3, 5, h, m, 0, 0, time.UTC)
		end := time.Date(2024, 3, 5, eh, em, 0, 0, time.UTC)
		return model.ClassRecord{Name: "c", Start: start, End: end}
	}
	records := []model.ClassRecord{
		mk(17, 0, 18, 0),
		mk(9, 0, 10, 30),
		mk(9, 0, 10, 0),
		mk(17, 0, 18, 0), // duplicate interval
		mk(7, 15, 8, 0),
	}

	grid := BuildGrid(records, Date{2024, time.March, 5})

	want := []Interval{
		{TimeOfDay{7, 15}, TimeOfDay{8, 0}},
		{TimeOfDay{9, 0}, TimeOfDay{10, 0}},
		{TimeOfDay{9, 0}, TimeOfDay{10, 30}},
		{TimeOfDay{17, 0}, TimeOfDay{18, 0}},
	}
	if len(grid.Intervals) != len(want) {
		t.Fatalf("Intervals = %v, want %v", grid.Intervals, want)
	}
	for i := range want {
		if grid.Intervals[i] != want[i] {
			t.Errorf("Intervals[%d] = %v, want %v", i, grid.Intervals[i], want[i])
		}
	}
}

func TestBuildGrid_CellKeysRestrictedToDaysAndIntervals(t *testing.T) {
	records := []model.ClassRecord{
		classAt("a", time.Date(2024, 2, 26, 18, 0, 0, 0, time.UTC), time.Hour),
		classAt("b", time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC), time.Hour),
		classAt("c", time.Date(2024, 3, 9, 9, 0, 0, 0, time.UTC), 90*time.Minute),
	}

	grid := BuildGrid(records, Date{2024, time.March, 6})

	dayset := make(map[Date]struct{})
	for _, d := range grid.Days {
		dayset[d] = struct{}{}
	}
	ivset := make(map[Interval]struct{})
	for _, iv := range grid.Intervals {
		ivset[iv] = struct{}{}
	}
	for key := range grid.Cells {
		if _, ok := dayset[key.Day]; !ok {
			t.Errorf("orphan cell day %v", key.Day)
		}
		if _, ok := ivset[key.Interval]; !ok {
			t.Errorf("orphan cell interval %v", key.Interval)
		}
	}
}

func TestBuildGrid_CollisionLastWriteWins(t *testing.T) {
	start := time.Date(2024, 3, 7, 14, 0, 0, 0, time.UTC) // Thursday
	a := classAt("A", start, time.Hour)
	b := classAt("B", start, time.Hour)

	grid := BuildGrid([]model.ClassRecord{a, b}, Date{2024, time.March, 7})

	got, ok := grid.Cell(Date{2024, time.March, 7}, Interval{TimeOfDay{14, 0}, TimeOfDay{15, 0}})
	if !ok {
		t.Fatal("cell missing")
	}
	if got.Name != "B" {
		t.Errorf("cell = %q, want the later record %q", got.Name, "B")
	}
}

func TestBuildGrid_DegenerateIntervalTolerated(t *testing.T) {
	// end before start: still bucketed, still a row, no panic.
	rec := model.ClassRecord{
		Name:  "Reversed",
		Start: time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC),
	}

	grid := BuildGrid([]model.ClassRecord{rec}, Date{2024, time.March, 6})

	checkWeekShape(t, grid.Days)
	wantInterval := Interval{TimeOfDay{10, 0}, TimeOfDay{9, 0}}
	if len(grid.Intervals) != 1 || grid.Intervals[0] != wantInterval {
		t.Fatalf("Intervals = %v, want [%v]", grid.Intervals, wantInterval)
	}
	if _, ok := grid.Cell(Date{2024, time.March, 6}, wantInterval); !ok {
		t.Error("degenerate record missing from Cells")
	}
}

func TestBuildGrid_DoesNotMutateInput(t *testing.T) {
	records := []model.ClassRecord{
		classAt("a", time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC), time.Hour),
		classAt("b", time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC), time.Hour),
	}
	BuildGrid(records, Date{2024, time.March, 6})
	if records[0].Name != "a" || records[1].Name != "b" {
		t.Error("input records reordered or mutated")
	}
}
