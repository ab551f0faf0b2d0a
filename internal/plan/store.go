// Package plan persists user-assembled workout plans.
//
// The store replaces the browser local-storage slot of the original
// tool with a single schema-versioned JSON document on disk, written
// atomically. The serialization contract is explicit: the on-disk
// shape is defined here, not by any runtime's object model.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitcal/internal/model"
)

// schemaVersion is bumped whenever the document shape changes; newer
// documents are rejected rather than misread.
const schemaVersion = 1

type document struct {
	SchemaVersion int             `json:"schema_version"`
	Active        uuid.UUID       `json:"active_workout"`
	Workouts      []model.Workout `json:"workouts"`
}

// Store is a single-slot workout-plan store backed by one JSON file.
// All methods are safe for concurrent use.
type Store struct {
	path string

	mu  sync.Mutex
	doc document
}

// Open loads the store at path, creating an empty document when the
// file does not exist yet.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("plan: store path is empty")
	}

	s := &Store{path: path, doc: document{SchemaVersion: schemaVersion}}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("plan: parse %s: %w", path, err)
	}
	if doc.SchemaVersion > schemaVersion {
		return nil, fmt.Errorf("plan: document schema %d is newer than supported %d", doc.SchemaVersion, schemaVersion)
	}
	doc.SchemaVersion = schemaVersion
	s.doc = doc
	return s, nil
}

// persist writes the document atomically (temp file + rename), 0600.
// Caller must hold s.mu.
func (s *Store) persist() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".fitcal-plan-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

// Workouts returns a copy of all workouts in insertion order.
func (s *Store) Workouts() []model.Workout {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Workout, len(s.doc.Workouts))
	copy(out, s.doc.Workouts)
	for i := range out {
		items := make([]model.WorkoutExercise, len(out[i].Exercises))
		copy(items, out[i].Exercises)
		out[i].Exercises = items
	}
	return out
}

// Active returns the currently active workout ID, if any.
func (s *Store) Active() (uuid.UUID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Active, s.doc.Active != uuid.Nil
}

// SetActive marks the given workout as the one receiving new entries.
func (s *Store) SetActive(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(id) < 0 {
		return fmt.Errorf("plan: no workout %s", id)
	}
	s.doc.Active = id
	return s.persist()
}

// AddWorkout creates an empty workout for date and makes it active.
func (s *Store) AddWorkout(date time.Time) (model.Workout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := model.Workout{
		ID:            uuid.New(),
		ExecutionDate: date,
	}
	s.doc.Workouts = append(s.doc.Workouts, w)
	s.doc.Active = w.ID
	if err := s.persist(); err != nil {
		return model.Workout{}, err
	}
	return w, nil
}

// RemoveWorkout deletes a workout. When the active workout is removed,
// the last remaining one becomes active.
func (s *Store) RemoveWorkout(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("plan: no workout %s", id)
	}
	s.doc.Workouts = append(s.doc.Workouts[:i], s.doc.Workouts[i+1:]...)
	if s.doc.Active == id {
		if n := len(s.doc.Workouts); n > 0 {
			s.doc.Active = s.doc.Workouts[n-1].ID
		} else {
			s.doc.Active = uuid.Nil
		}
	}
	return s.persist()
}

// Clear removes every workout.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Workouts = nil
	s.doc.Active = uuid.Nil
	return s.persist()
}

// SetExecutionDate reschedules a workout.
func (s *Store) SetExecutionDate(id uuid.UUID, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("plan: no workout %s", id)
	}
	s.doc.Workouts[i].ExecutionDate = date
	return s.persist()
}

// AddExercise appends a configured exercise entry to the workout with
// the given ID. A zero workoutID targets the active workout, creating
// a fresh one dated now when none exists.
func (s *Store) AddExercise(workoutID uuid.UUID, exerciseID, name string, sets int, reps, timePerSet string) (model.WorkoutExercise, error) {
	if err := ValidateEntry(sets, reps, timePerSet); err != nil {
		return model.WorkoutExercise{}, err
	}
	if name == "" {
		return model.WorkoutExercise{}, errors.New("plan: exercise name is empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if workoutID == uuid.Nil {
		workoutID = s.doc.Active
	}
	i := -1
	if workoutID != uuid.Nil {
		i = s.indexOf(workoutID)
	}
	if i < 0 {
		w := model.Workout{ID: uuid.New(), ExecutionDate: time.Now()}
		s.doc.Workouts = append(s.doc.Workouts, w)
		s.doc.Active = w.ID
		i = len(s.doc.Workouts) - 1
	}

	entry := model.WorkoutExercise{
		ExerciseID: exerciseID,
		EntryID:    uuid.New(),
		Name:       name,
		Sets:       sets,
		Reps:       reps,
		Time:       timePerSet,
	}
	s.doc.Workouts[i].Exercises = append(s.doc.Workouts[i].Exercises, entry)
	if err := s.persist(); err != nil {
		return model.WorkoutExercise{}, err
	}
	return entry, nil
}

// RemoveExercise deletes one entry from a workout.
func (s *Store) RemoveExercise(workoutID, entryID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(workoutID)
	if i < 0 {
		return fmt.Errorf("plan: no workout %s", workoutID)
	}
	items := s.doc.Workouts[i].Exercises
	for j, entry := range items {
		if entry.EntryID == entryID {
			s.doc.Workouts[i].Exercises = append(items[:j], items[j+1:]...)
			return s.persist()
		}
	}
	return fmt.Errorf("plan: no entry %s in workout %s", entryID, workoutID)
}

func (s *Store) indexOf(id uuid.UUID) int {
	for i, w := range s.doc.Workouts {
		if w.ID == id {
			return i
		}
	}
	return -1
}

// ValidateEntry checks an exercise configuration: sets must be
// positive; reps, when given, is a comma list of integers whose count
// equals sets; time, when given, is "hh:mm:ss".
func ValidateEntry(sets int, reps, timePerSet string) error {
	if sets < 1 {
		return errors.New("plan: sets must be at least 1")
	}
	if reps != "" {
		parts := strings.Split(reps, ",")
		count := 0
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if _, err := strconv.Atoi(p); err != nil {
				return fmt.Errorf("plan: reps %q: not a number", p)
			}
			count++
		}
		if count != sets {
			return fmt.Errorf("plan: %d rep values for %d sets", count, sets)
		}
	}
	if timePerSet != "" {
		parts := strings.Split(timePerSet, ":")
		if len(parts) != 3 {
			return fmt.Errorf("plan: time %q: want hh:mm:ss", timePerSet)
		}
		for _, p := range parts {
			if n, err := strconv.Atoi(p); err != nil || n < 0 {
				return fmt.Errorf("plan: time %q: want hh:mm:ss", timePerSet)
			}
		}
	}
	return nil
}
