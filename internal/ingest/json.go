package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	appLog "fitcal/internal/log"
	"fitcal/internal/model"
)

// classDocument is the structured JSON schedule format:
//
//	{"fitness_classes": [{"name": ..., "start": ..., "end": ...,
//	  "instructor": ..., "render_config": {"text_color": ...,
//	  "background_color": ...}}]}
type classDocument struct {
	FitnessClasses []classEntry `json:"fitness_classes"`
}

type classEntry struct {
	Name         string      `json:"name"`
	Start        string      `json:"start"`
	End          string      `json:"end"`
	Instructor   string      `json:"instructor"`
	RenderConfig renderEntry `json:"render_config"`
}

type renderEntry struct {
	TextColor       string `json:"text_color"`
	BackgroundColor string `json:"background_color"`
}

// ParseClassesJSON parses a structured JSON schedule document into
// class records. Timestamps are ISO-8601; zone-less values are
// interpreted in loc. A malformed entry fails the whole document: no
// partially-parsed records reach the caller.
func ParseClassesJSON(body []byte, loc *time.Location) ([]model.ClassRecord, error) {
	var doc classDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("classes json: %w", err)
	}

	records := make([]model.ClassRecord, 0, len(doc.FitnessClasses))
	for i, entry := range doc.FitnessClasses {
		rec, err := entry.toRecord(loc)
		if err != nil {
			return nil, fmt.Errorf("classes json: entry %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (e classEntry) toRecord(loc *time.Location) (model.ClassRecord, error) {
	if e.Name == "" {
		return model.ClassRecord{}, fmt.Errorf("missing name")
	}
	start, err := parseTimestamp(e.Start, loc)
	if err != nil {
		return model.ClassRecord{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseTimestamp(e.End, loc)
	if err != nil {
		return model.ClassRecord{}, fmt.Errorf("end: %w", err)
	}
	if !start.Before(end) {
		// Tolerated downstream; worth a trace for the schedule author.
		appLog.Debug("class interval is degenerate", "name", e.Name, "start", e.Start, "end", e.End)
	}

	style := model.DefaultStyle()
	if e.RenderConfig.TextColor != "" {
		style.TextColor = e.RenderConfig.TextColor
	}
	if e.RenderConfig.BackgroundColor != "" {
		style.BackgroundColor = e.RenderConfig.BackgroundColor
	}

	return model.ClassRecord{
		Name:       e.Name,
		Start:      start,
		End:        end,
		Instructor: e.Instructor,
		Style:      style,
	}, nil
}

// parseTimestamp accepts RFC3339 timestamps as well as the zone-less
// ISO forms the original schedule documents use ("2024-03-06T09:00:00",
// "2024-03-06T09:00"). Zone-less values are placed in loc.
func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
