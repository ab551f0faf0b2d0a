package model

import (
	"time"

	"github.com/google/uuid"
)

// Style carries the presentation colors attached to a class record.
// The values are opaque to everything except the renderer; they are
// passed through as-is (typically "#RRGGBB" strings).
type Style struct {
	TextColor       string `json:"text_color"`
	BackgroundColor string `json:"background_color"`
}

// DefaultStyle is applied when a source does not specify colors.
func DefaultStyle() Style {
	return Style{
		TextColor:       "#000000",
		BackgroundColor: "#FFFFFF",
	}
}

// ClassRecord is one scheduled class occurrence as produced by an
// ingestion adapter. Records are immutable after ingestion; a refresh
// replaces the whole slice.
//
// Start < End is expected from well-formed sources but is not assumed
// by the schedule grid builder, which must tolerate degenerate or
// reversed intervals without failing.
type ClassRecord struct {
	Name       string    `json:"name"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Instructor string    `json:"instructor"`
	Style      Style     `json:"render_config"`
}

// Exercise is one row of the exercise catalog CSV.
type Exercise struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Category         string `json:"category"`
	BodyParts        string `json:"body_parts"`
	ThumbnailURL     string `json:"thumbnail_url"`
	YouTubeVideoID   string `json:"yt_video_id"`
	Instructions     string `json:"instructions"`
	PrimaryMuscles   string `json:"primary_muscles"`
	SecondaryMuscles string `json:"secondary_muscles"`
	KeyCues          string `json:"key_cues"`
	Alternatives     string `json:"alternatives"` // comma-separated exercise IDs
}

// WorkoutExercise is one configured entry inside a workout plan.
//
// Reps, when non-empty, is a comma-separated list of integers whose
// count matches Sets. Time, when non-empty, is "hh:mm:ss" per set.
type WorkoutExercise struct {
	ExerciseID string    `json:"exercise_id"`
	EntryID    uuid.UUID `json:"entry_id"`
	Name       string    `json:"name"`
	Sets       int       `json:"sets"`
	Reps       string    `json:"reps,omitempty"`
	Time       string    `json:"time,omitempty"`
}

// Workout is a user-assembled plan for a single execution date.
type Workout struct {
	ID            uuid.UUID         `json:"id"`
	ExecutionDate time.Time         `json:"execution_date"`
	Exercises     []WorkoutExercise `json:"exercises"`
}
