package ingest

import (
	"strings"
	"testing"
	"time"
)

func TestParseClassesJSON(t *testing.T) {
	body := []byte(`{
	  "fitness_classes": [
	    {
	      "name": "Yoga Flow",
	      "start": "2024-03-06T09:00:00",
	      "end": "2024-03-06T10:00:00",
	      "instructor": "Alice Smith",
	      "render_config": {"text_color": "#FFFFFF", "background_color": "#800080"}
	    },
	    {
	      "name": "HIIT Blast",
	      "start": "2024-03-07T18:00:00",
	      "end": "2024-03-07T19:00:00",
	      "instructor": ""
	    }
	  ]
	}`)

	records, err := ParseClassesJSON(body, time.UTC)
	if err != nil {
		t.Fatalf("ParseClassesJSON() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.Name != "Yoga Flow" {
		t.Errorf("Name = %q", first.Name)
	}
	if want := time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC); !first.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", first.Start, want)
	}
	if first.Style.BackgroundColor != "#800080" {
		t.Errorf("BackgroundColor = %q", first.Style.BackgroundColor)
	}

	// Missing render_config falls back to defaults.
	second := records[1]
	if second.Style.TextColor != "#000000" || second.Style.BackgroundColor != "#FFFFFF" {
		t.Errorf("default style not applied: %+v", second.Style)
	}
}

func TestParseClassesJSON_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad timestamp", `{"fitness_classes":[{"name":"x","start":"06.03.2024","end":"2024-03-06T10:00:00"}]}`},
		{"missing name", `{"fitness_classes":[{"start":"2024-03-06T09:00:00","end":"2024-03-06T10:00:00"}]}`},
		{"missing end", `{"fitness_classes":[{"name":"x","start":"2024-03-06T09:00:00"}]}`},
		{"not json", `Class Name Is x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseClassesJSON([]byte(tt.body), time.UTC); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseClassesBlocks(t *testing.T) {
	body := []byte(`
Class Name Is Morning Yoga
Class Instructor Is Alice Smith
Class Starts On 04.03.2024
Class Starts At 09:00
Class Ends On 04.03.2024
Class Ends At 10:00
Text Color Is #FFFFFF
Background Color Is #800080
+++
Class Name Is Spin
Class Starts On 08.03.2024
Class Starts At 17:30
Class Ends On 08.03.2024
Class Ends At 18:30
`)

	records, err := ParseClassesBlocks(body, time.UTC)
	if err != nil {
		t.Fatalf("ParseClassesBlocks() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	yoga := records[0]
	if yoga.Name != "Morning Yoga" || yoga.Instructor != "Alice Smith" {
		t.Errorf("first record = %+v", yoga)
	}
	if want := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC); !yoga.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", yoga.Start, want)
	}
	if yoga.Style.TextColor != "#FFFFFF" || yoga.Style.BackgroundColor != "#800080" {
		t.Errorf("style = %+v", yoga.Style)
	}

	spin := records[1]
	if spin.Instructor != "" {
		t.Errorf("Instructor = %q, want empty", spin.Instructor)
	}
	if want := time.Date(2024, 3, 8, 17, 30, 0, 0, time.UTC); !spin.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", spin.Start, want)
	}
	// Defaults when the block specifies no colors.
	if spin.Style.TextColor != "#000000" || spin.Style.BackgroundColor != "#FFFFFF" {
		t.Errorf("default style not applied: %+v", spin.Style)
	}
}

func TestParseClassesBlocks_MissingField(t *testing.T) {
	body := []byte(`
Class Name Is Broken
Class Starts On 04.03.2024
Class Starts At 09:00
Class Ends On 04.03.2024
`)
	if _, err := ParseClassesBlocks(body, time.UTC); err == nil {
		t.Error("expected error for missing end time, got nil")
	}
}

func TestParseExerciseCSV(t *testing.T) {
	csvData := `id,name,category,body_parts,thumbnail_url,yt_video_id,instructions,primary_muscles,secondary_muscles,key_cues,alternatives
1,Push Up,strength,"chest,triceps",pushup.png,abc123,Keep your back straight.,chest,triceps,"brace core, full range",2
2,Squat,strength,legs,squat.png,def456,Sit back and down.,quads,glutes,,
`

	exercises, err := ParseExerciseCSV(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ParseExerciseCSV() error = %v", err)
	}
	if len(exercises) != 2 {
		t.Fatalf("got %d exercises, want 2", len(exercises))
	}
	if exercises[0].Name != "Push Up" || exercises[0].BodyParts != "chest,triceps" {
		t.Errorf("first exercise = %+v", exercises[0])
	}
	if exercises[0].Alternatives != "2" {
		t.Errorf("Alternatives = %q", exercises[0].Alternatives)
	}
	if exercises[1].KeyCues != "" {
		t.Errorf("KeyCues = %q, want empty", exercises[1].KeyCues)
	}
}

func TestParseExerciseCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing id column", "name,category\nPush Up,strength\n"},
		{"row without id", "id,name,category\n,Push Up,strength\n"},
		{"row without name", "id,name,category\n1,,strength\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseExerciseCSV(strings.NewReader(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-06T09:00:00", time.Date(2024, 3, 6, 9, 0, 0, 0, loc)},
		{"2024-03-06T09:00", time.Date(2024, 3, 6, 9, 0, 0, 0, loc)},
		{"2024-03-06T09:00:00Z", time.Date(2024, 3, 6, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got, err := parseTimestamp(tt.in, loc)
		if err != nil {
			t.Errorf("parseTimestamp(%q) error = %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("parseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := parseTimestamp("", loc); err == nil {
		t.Error("empty timestamp: expected error")
	}
}

func TestParseClassesICS(t *testing.T) {
	body := []byte(strings.ReplaceAll(`BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:one@example.com
SUMMARY:Pilates Core
DESCRIPTION:Carol Lee
DTSTART:20240306T070000Z
DTEND:20240306T080000Z
END:VEVENT
BEGIN:VEVENT
UID:allday@example.com
SUMMARY:Studio Closed
DTSTART;VALUE=DATE:20240307
DTEND;VALUE=DATE:20240308
END:VEVENT
END:VCALENDAR
`, "\n", "\r\n"))

	opts := ICSOptions{
		Location:   time.UTC,
		RangeStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	records, err := ParseClassesICS(Source{ID: "test"}, body, opts)
	if err != nil {
		t.Fatalf("ParseClassesICS() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (all-day skipped)", len(records))
	}
	rec := records[0]
	if rec.Name != "Pilates Core" || rec.Instructor != "Carol Lee" {
		t.Errorf("record = %+v", rec)
	}
	if want := time.Date(2024, 3, 6, 7, 0, 0, 0, time.UTC); !rec.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", rec.Start, want)
	}
}
