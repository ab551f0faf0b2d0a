package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"fitcal/internal/model"
)

// ParseExerciseCSV reads the exercise catalog. The first row is a
// header; columns are matched by name so the catalog can reorder or
// add columns without breaking ingestion. Rows missing id or name are
// rejected.
func ParseExerciseCSV(r io.Reader) ([]model.Exercise, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // validated against the header below

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("exercise csv: header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	if _, ok := col["id"]; !ok {
		return nil, fmt.Errorf("exercise csv: header missing id column")
	}
	if _, ok := col["name"]; !ok {
		return nil, fmt.Errorf("exercise csv: header missing name column")
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	exercises := make([]model.Exercise, 0)
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("exercise csv: line %d: %w", line, err)
		}
		ex := model.Exercise{
			ID:               field(row, "id"),
			Name:             field(row, "name"),
			Category:         field(row, "category"),
			BodyParts:        field(row, "body_parts"),
			ThumbnailURL:     field(row, "thumbnail_url"),
			YouTubeVideoID:   field(row, "yt_video_id"),
			Instructions:     field(row, "instructions"),
			PrimaryMuscles:   field(row, "primary_muscles"),
			SecondaryMuscles: field(row, "secondary_muscles"),
			KeyCues:          field(row, "key_cues"),
			Alternatives:     field(row, "alternatives"),
		}
		if ex.ID == "" || ex.Name == "" {
			return nil, fmt.Errorf("exercise csv: line %d: missing id or name", line)
		}
		exercises = append(exercises, ex)
	}
	return exercises, nil
}

// LoadExerciseCSV reads the catalog from a file path.
func LoadExerciseCSV(path string) ([]model.Exercise, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseExerciseCSV(f)
}
