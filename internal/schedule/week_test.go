package schedule

import (
	"testing"
	"time"

	"fitcal/internal/model"
)

func TestWeekWindowFor(t *testing.T) {
	tests := []struct {
		name      string
		date      Date
		wantStart Date
		wantEnd   Date
	}{
		{
			name:      "wednesday maps to its monday",
			date:      Date{2024, time.March, 6},
			wantStart: Date{2024, time.March, 4},
			wantEnd:   Date{2024, time.March, 10},
		},
		{
			name:      "monday maps to itself",
			date:      Date{2024, time.March, 4},
			wantStart: Date{2024, time.March, 4},
			wantEnd:   Date{2024, time.March, 10},
		},
		{
			name:      "sunday maps to the preceding monday",
			date:      Date{2024, time.March, 10},
			wantStart: Date{2024, time.March, 4},
			wantEnd:   Date{2024, time.March, 10},
		},
		{
			name:      "window crosses a month boundary",
			date:      Date{2024, time.February, 28},
			wantStart: Date{2024, time.February, 26},
			wantEnd:   Date{2024, time.March, 3},
		},
		{
			name:      "window crosses a year boundary",
			date:      Date{2025, time.January, 1},
			wantStart: Date{2024, time.December, 30},
			wantEnd:   Date{2025, time.January, 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeekWindowFor(tt.date)
			if got.Start != tt.wantStart {
				t.Errorf("Start = %v, want %v", got.Start, tt.wantStart)
			}
			if got.End != tt.wantEnd {
				t.Errorf("End = %v, want %v", got.End, tt.wantEnd)
			}
			if got.Start.Weekday() != time.Monday {
				t.Errorf("Start weekday = %v, want Monday", got.Start.Weekday())
			}
			if got.Start.AddDays(6) != got.End {
				t.Errorf("End is not Start+6 days: %v .. %v", got.Start, got.End)
			}
		})
	}
}

func classAt(name string, start time.Time, dur time.Duration) model.ClassRecord {
	return model.ClassRecord{
		Name:  name,
		Start: start,
		End:   start.Add(dur),
		Style: model.DefaultStyle(),
	}
}

func TestFilterByWeek_Inclusivity(t *testing.T) {
	window := WeekWindow{
		Start: Date{2024, time.March, 4},
		End:   Date{2024, time.March, 10},
	}

	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"monday midnight included", time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), true},
		{"midweek included", time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC), true},
		{"sunday late evening included", time.Date(2024, 3, 10, 23, 59, 0, 0, time.UTC), true},
		{"day before window excluded", time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC), false},
		{"next monday midnight excluded", time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByWeek([]model.ClassRecord{classAt("x", tt.start, time.Hour)}, window)
			if included := len(got) == 1; included != tt.want {
				t.Errorf("included = %v, want %v (start %v)", included, tt.want, tt.start)
			}
		})
	}
}

func TestFilterByWeek_PreservesOrder(t *testing.T) {
	window := WeekWindowFor(Date{2024, time.March, 6})
	records := []model.ClassRecord{
		classAt("c", time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC), time.Hour),
		classAt("out", time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC), time.Hour),
		classAt("a", time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), time.Hour),
		classAt("b", time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC), time.Hour),
	}

	got := FilterByWeek(records, window)
	wantNames := []string{"c", "a", "b"}
	if len(got) != len(wantNames) {
		t.Fatalf("got %d records, want %d", len(got), len(wantNames))
	}
	for i, name := range wantNames {
		if got[i].Name != name {
			t.Errorf("record %d = %q, want %q", i, got[i].Name, name)
		}
	}
	if records[1].Name != "out" {
		t.Error("input slice was mutated")
	}
}

func TestDateRange(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, _, ok := DateRange(nil)
		if ok {
			t.Error("ok = true for empty input")
		}
	})

	t.Run("min and max across unordered records", func(t *testing.T) {
		records := []model.ClassRecord{
			classAt("b", time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC), time.Hour),
			classAt("a", time.Date(2024, 2, 26, 18, 0, 0, 0, time.UTC), time.Hour),
			classAt("c", time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC), time.Hour),
		}
		min, max, ok := DateRange(records)
		if !ok {
			t.Fatal("ok = false")
		}
		if want := (Date{2024, time.February, 26}); min != want {
			t.Errorf("min = %v, want %v", min, want)
		}
		if want := (Date{2024, time.March, 10}); max != want {
			t.Errorf("max = %v, want %v", max, want)
		}
	})
}
