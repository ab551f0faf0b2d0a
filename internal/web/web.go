// Package web provides the HTTP API and printable HTML views.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"fitcal/internal/capture"
	"fitcal/internal/config"
	"fitcal/internal/export"
	"fitcal/internal/ingest"
	"fitcal/internal/library"
	appLog "fitcal/internal/log"
	"fitcal/internal/model"
	"fitcal/internal/plan"
	"fitcal/internal/render"
	"fitcal/internal/schedule"
)

// Version is reported by /api/config and the startup log.
const Version = "0.1.0"

// maxUploadBytes bounds manual schedule uploads.
const maxUploadBytes = 4 << 20

// scheduleCacheTTL bounds how long a built /api/schedule response is
// reused before the grid is recomputed.
const scheduleCacheTTL = 30 * time.Second

type scheduleCacheEntry struct {
	key       string
	resp      scheduleResponse
	updatedAt time.Time
}

// Server serves the schedule grid, the exercise library and the
// workout-plan API over HTTP.
type Server struct {
	cfg     *config.Config
	cfgPath string
	mux     *http.ServeMux

	fetcher *ingest.Fetcher
	store   *plan.Store
	lib     *library.Index

	// cfgMu guards the user-tunable config fields that PUT /api/config
	// rewrites while other handlers read them.
	cfgMu sync.RWMutex

	// Current class records, replaced wholesale on every refresh or
	// manual upload.
	recordsMu   sync.RWMutex
	records     []model.ClassRecord
	lastRefresh time.Time

	// Last built /api/schedule response, dropped whenever the records
	// change.
	scheduleMu    sync.RWMutex
	scheduleCache *scheduleCacheEntry
}

// NewServer constructs a new Server. store and lib may be nil when the
// workout-plan or exercise-library features are disabled.
func NewServer(cfg *config.Config, cfgPath string, store *plan.Store, lib *library.Index) *Server {
	s := &Server{
		cfg:     cfg,
		cfgPath: cfgPath,
		mux:     http.NewServeMux(),
		fetcher: ingest.NewFetcher(filepath.Join(cfg.DataDir, "source-cache")),
		store:   store,
		lib:     lib,
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	// Empty username or password counts as disabled.
	if s.cfg.BasicAuth.Username == "" || s.cfg.BasicAuth.Password == "" {
		return false
	}
	return true
}

// basicAuthMiddleware wraps all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="FitCal", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("GET /api/schedule", s.handleScheduleJSON)
	s.mux.HandleFunc("GET /api/classes", s.handleClassesGet)
	s.mux.HandleFunc("POST /api/classes", s.handleClassesUpload)
	s.mux.HandleFunc("POST /api/refresh", s.handleRefresh)

	s.mux.HandleFunc("GET /schedule", s.handleScheduleHTML)
	s.mux.HandleFunc("GET /schedule.pdf", s.handleSchedulePDF)
	s.mux.HandleFunc("GET /preview.png", s.handlePreview)

	s.mux.HandleFunc("GET /api/exercises", s.handleExercises)
	s.mux.HandleFunc("GET /api/exercises/categories", s.handleExerciseCategories)
	s.mux.HandleFunc("GET /api/exercises/{id}", s.handleExercise)
	s.mux.HandleFunc("GET /api/exercises/{id}/alternatives", s.handleExerciseAlternatives)

	s.mux.HandleFunc("GET /api/workouts", s.handleWorkoutsList)
	s.mux.HandleFunc("POST /api/workouts", s.handleWorkoutCreate)
	s.mux.HandleFunc("DELETE /api/workouts", s.handleWorkoutsClear)
	s.mux.HandleFunc("PATCH /api/workouts/{id}", s.handleWorkoutUpdate)
	s.mux.HandleFunc("DELETE /api/workouts/{id}", s.handleWorkoutDelete)
	s.mux.HandleFunc("POST /api/workouts/{id}/exercises", s.handleWorkoutAddExercise)
	s.mux.HandleFunc("DELETE /api/workouts/{id}/exercises/{entry}", s.handleWorkoutRemoveExercise)

	s.mux.HandleFunc("GET /workouts", s.handleWorkoutsHTML)
	s.mux.HandleFunc("GET /workouts.pdf", s.handleWorkoutsPDF)
	s.mux.HandleFunc("GET /workouts.xlsx", s.handleWorkoutsXLSX)

	s.mux.HandleFunc("GET /api/config", s.handleConfigGet)
	s.mux.HandleFunc("PUT /api/config", s.handleConfigPut)

	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/schedule", http.StatusFound)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// location resolves the configured display timezone.
func (s *Server) location() *time.Location {
	if s.cfg.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.cfg.Timezone)
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err, "name", s.cfg.Timezone)
		return time.Local
	}
	return loc
}

// Refresh fetches every configured source, parses the bodies with the
// per-source adapter and swaps in the merged record set. Sources that
// fail are skipped; the previous records survive a refresh where every
// source fails.
func (s *Server) Refresh(ctx context.Context) error {
	loc := s.location()

	sources := make([]ingest.Source, 0, len(s.cfg.Sources))
	for _, src := range s.cfg.Sources {
		if src.URL == "" {
			continue
		}
		sources = append(sources, ingest.Source{ID: src.ID, URL: src.URL, Format: src.Format})
	}
	if len(sources) == 0 {
		appLog.Info("refresh skipped: no sources configured")
		return nil
	}

	results, fetchErrs := s.fetcher.FetchAll(ctx, sources)
	for _, err := range fetchErrs {
		appLog.Error("refresh: fetch failed", err)
	}
	if len(results) == 0 {
		return errors.New("refresh: all sources failed")
	}

	now := time.Now().In(loc)
	icsOpts := ingest.ICSOptions{
		Location:   loc,
		RangeStart: now.AddDate(0, 0, -7),
		RangeEnd:   now.AddDate(0, 0, 60),
	}

	merged := make([]model.ClassRecord, 0)
	for _, res := range results {
		records, err := parseByFormat(res.Source, res.Body, loc, icsOpts)
		if err != nil {
			appLog.Error("refresh: parse failed", err, "id", res.Source.ID, "format", res.Source.Format)
			continue
		}
		merged = append(merged, records...)
	}

	s.recordsMu.Lock()
	s.records = merged
	s.lastRefresh = time.Now()
	s.recordsMu.Unlock()
	s.invalidateScheduleCache()

	appLog.Info("refresh complete", "sources", len(results), "classes", len(merged))
	return nil
}

func parseByFormat(src ingest.Source, body []byte, loc *time.Location, icsOpts ingest.ICSOptions) ([]model.ClassRecord, error) {
	switch src.Format {
	case config.FormatBlocks:
		return ingest.ParseClassesBlocks(body, loc)
	case config.FormatICS:
		return ingest.ParseClassesICS(src, body, icsOpts)
	default:
		return ingest.ParseClassesJSON(body, loc)
	}
}

// snapshot returns the current records without copying; callers must
// treat the slice as read-only.
func (s *Server) snapshot() []model.ClassRecord {
	s.recordsMu.RLock()
	defer s.recordsMu.RUnlock()
	return s.records
}

// highlightedDate resolves the optional ?date=YYYY-MM-DD query
// parameter, defaulting to today in the display timezone.
func (s *Server) highlightedDate(r *http.Request, loc *time.Location) (schedule.Date, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return schedule.DateOf(time.Now().In(loc)), nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		return schedule.Date{}, fmt.Errorf("bad date %q: want YYYY-MM-DD", raw)
	}
	return schedule.DateOf(t), nil
}

// lang resolves the optional ?lang= query parameter against the
// configured default.
func (s *Server) lang(r *http.Request) string {
	if l := r.URL.Query().Get("lang"); l != "" {
		return l
	}
	s.cfgMu.RLock()
	defer s.cfgMu.RUnlock()
	return s.cfg.Language
}

func (s *Server) invalidateScheduleCache() {
	s.scheduleMu.Lock()
	s.scheduleCache = nil
	s.scheduleMu.Unlock()
}

// scheduleResponse is the JSON shape for /api/schedule.
type scheduleResponse struct {
	Days        []string          `json:"days"`
	Intervals   []string          `json:"intervals"`
	Cells       []scheduleCellDTO `json:"cells"`
	Highlighted string            `json:"highlighted"`
	Classes     int               `json:"class_count"`
	// MinDate / MaxDate bound the UI date picker; empty without data.
	MinDate     string     `json:"min_date,omitempty"`
	MaxDate     string     `json:"max_date,omitempty"`
	LastRefresh *time.Time `json:"last_refresh,omitempty"`
}

type scheduleCellDTO struct {
	Day      string            `json:"day"`
	Interval string            `json:"interval"`
	Class    model.ClassRecord `json:"class"`
}

func (s *Server) handleScheduleJSON(w http.ResponseWriter, r *http.Request) {
	loc := s.location()
	highlighted, err := s.highlightedDate(r, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := highlighted.String()
	s.scheduleMu.RLock()
	if c := s.scheduleCache; c != nil && c.key == key && time.Since(c.updatedAt) < scheduleCacheTTL {
		resp := c.resp
		s.scheduleMu.RUnlock()
		writeJSON(w, http.StatusOK, resp)
		return
	}
	s.scheduleMu.RUnlock()

	records := s.snapshot()
	week := schedule.FilterByWeek(records, schedule.WeekWindowFor(highlighted))
	grid := schedule.BuildGrid(week, highlighted)

	resp := scheduleResponse{
		Highlighted: grid.Highlighted.String(),
		Classes:     len(week),
	}
	if min, max, ok := schedule.DateRange(records); ok {
		resp.MinDate = min.String()
		resp.MaxDate = max.String()
	}
	for _, d := range grid.Days {
		resp.Days = append(resp.Days, d.String())
	}
	for _, iv := range grid.Intervals {
		resp.Intervals = append(resp.Intervals, iv.String())
	}
	for _, d := range grid.Days {
		for _, iv := range grid.Intervals {
			if rec, ok := grid.Cell(d, iv); ok {
				resp.Cells = append(resp.Cells, scheduleCellDTO{
					Day:      d.String(),
					Interval: iv.String(),
					Class:    rec,
				})
			}
		}
	}

	s.recordsMu.RLock()
	if !s.lastRefresh.IsZero() {
		t := s.lastRefresh
		resp.LastRefresh = &t
	}
	s.recordsMu.RUnlock()

	s.scheduleMu.Lock()
	s.scheduleCache = &scheduleCacheEntry{key: key, resp: resp, updatedAt: time.Now()}
	s.scheduleMu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleClassesGet(w http.ResponseWriter, _ *http.Request) {
	records := s.snapshot()
	if records == nil {
		records = []model.ClassRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

// handleClassesUpload accepts a manual schedule document and replaces
// the current records with its contents. JSON documents start with
// "{"; anything else is treated as the block-text format.
func (s *Server) handleClassesUpload(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxUploadBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "empty body")
		return
	}

	loc := s.location()
	var records []model.ClassRecord
	if strings.HasPrefix(strings.TrimSpace(string(body)), "{") {
		records, err = ingest.ParseClassesJSON(body, loc)
	} else {
		records, err = ingest.ParseClassesBlocks(body, loc)
	}
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.recordsMu.Lock()
	s.records = records
	s.lastRefresh = time.Now()
	s.recordsMu.Unlock()
	s.invalidateScheduleCache()

	appLog.Info("manual schedule upload", "classes", len(records))
	writeJSON(w, http.StatusOK, map[string]int{"classes": len(records)})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.Refresh(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"classes": len(s.snapshot())})
}

func (s *Server) handleScheduleHTML(w http.ResponseWriter, r *http.Request) {
	loc := s.location()
	highlighted, err := s.highlightedDate(r, loc)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	records := s.snapshot()
	week := schedule.FilterByWeek(records, schedule.WeekWindowFor(highlighted))
	grid := schedule.BuildGrid(week, highlighted)

	s.cfgMu.RLock()
	lang, number, book := s.cfg.Language, s.cfg.WhatsAppNumber, s.cfg.BookViaWhatsApp
	s.cfgMu.RUnlock()
	if l := r.URL.Query().Get("lang"); l != "" {
		lang = l
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = render.Schedule(w, grid, render.ScheduleOptions{
		Lang:            lang,
		WhatsAppNumber:  number,
		BookViaWhatsApp: book,
		Location:        loc,
	})
	if err != nil {
		appLog.Error("schedule render failed", err)
	}
}

func (s *Server) handleSchedulePDF(w http.ResponseWriter, r *http.Request) {
	loc := s.location()
	highlighted, err := s.highlightedDate(r, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	window := schedule.WeekWindowFor(highlighted)
	filename := fmt.Sprintf("plan_%s_%s_%s.pdf", window.Start, window.End, s.lang(r))
	s.servePDF(w, r, "/schedule", true, filename)
}

func (s *Server) handleWorkoutsPDF(w http.ResponseWriter, r *http.Request) {
	filename := "workouts_" + time.Now().In(s.location()).Format("02012006_150405") + ".pdf"
	s.servePDF(w, r, "/workouts", false, filename)
}

// servePDF prints one of our own HTML pages to PDF through headless
// Chromium. The capture request goes through the loopback listener, so
// basic auth credentials (when set) are passed along.
func (s *Server) servePDF(w http.ResponseWriter, r *http.Request, path string, landscape bool, filename string) {
	url := "http://" + s.cfg.Listen + path
	if q := r.URL.Query().Encode(); q != "" {
		url += "?" + q
	}
	if s.basicAuthEnabled() {
		url = "http://" + s.cfg.BasicAuth.Username + ":" + s.cfg.BasicAuth.Password + "@" + s.cfg.Listen + path
	}

	pdf, err := capture.PrintPDF(r.Context(), capture.PDFOptions{
		URL:       url,
		Landscape: landscape,
	})
	if err != nil {
		appLog.Error("pdf capture failed", err, "path", path)
		writeError(w, http.StatusInternalServerError, "failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// handlePreview serves the last captured PNG preview from disk.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(s.cfg.DataDir, "preview.png"))
}

func (s *Server) handleExercises(w http.ResponseWriter, r *http.Request) {
	if s.lib == nil {
		writeError(w, http.StatusNotFound, "exercise library not configured")
		return
	}
	matches := s.lib.Search(r.URL.Query().Get("q"))
	if matches == nil {
		matches = []model.Exercise{}
	}
	writeJSON(w, http.StatusOK, matches)
}

// handleExerciseCategories reports how many catalog entries fall in
// each category, optionally limited to a name query.
func (s *Server) handleExerciseCategories(w http.ResponseWriter, r *http.Request) {
	if s.lib == nil {
		writeError(w, http.StatusNotFound, "exercise library not configured")
		return
	}
	counts := s.lib.CategoryCounts(s.lib.Search(r.URL.Query().Get("q")))
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleExercise(w http.ResponseWriter, r *http.Request) {
	if s.lib == nil {
		writeError(w, http.StatusNotFound, "exercise library not configured")
		return
	}
	ex, ok := s.lib.ByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "no such exercise")
		return
	}
	writeJSON(w, http.StatusOK, ex)
}

func (s *Server) handleExerciseAlternatives(w http.ResponseWriter, r *http.Request) {
	if s.lib == nil {
		writeError(w, http.StatusNotFound, "exercise library not configured")
		return
	}
	ex, ok := s.lib.ByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "no such exercise")
		return
	}
	alts := s.lib.Alternatives(ex)
	if alts == nil {
		alts = []model.Exercise{}
	}
	writeJSON(w, http.StatusOK, alts)
}

// workoutsResponse is the JSON shape for /api/workouts.
type workoutsResponse struct {
	Workouts []model.Workout `json:"workouts"`
	Active   *uuid.UUID      `json:"active_workout,omitempty"`
}

func (s *Server) handleWorkoutsList(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "workout store not configured")
		return
	}
	resp := workoutsResponse{Workouts: s.store.Workouts()}
	if resp.Workouts == nil {
		resp.Workouts = []model.Workout{}
	}
	if id, ok := s.store.Active(); ok {
		resp.Active = &id
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWorkoutCreate(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "workout store not configured")
		return
	}
	var req struct {
		ExecutionDate string `json:"execution_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "bad JSON body")
		return
	}
	date := time.Now().In(s.location())
	if req.ExecutionDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.ExecutionDate, s.location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad execution_date: want YYYY-MM-DD")
			return
		}
		date = t
	}
	wo, err := s.store.AddWorkout(date)
	if err != nil {
		appLog.Error("workout create failed", err)
		writeError(w, http.StatusInternalServerError, "failed to save workout")
		return
	}
	writeJSON(w, http.StatusCreated, wo)
}

func (s *Server) handleWorkoutsClear(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "workout store not configured")
		return
	}
	if err := s.store.Clear(); err != nil {
		appLog.Error("workout clear failed", err)
		writeError(w, http.StatusInternalServerError, "failed to clear workouts")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) workoutID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad workout id")
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleWorkoutUpdate(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "workout store not configured")
		return
	}
	id, ok := s.workoutID(w, r)
	if !ok {
		return
	}
	var req struct {
		ExecutionDate string `json:"execution_date"`
		Active        bool   `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad JSON body")
		return
	}
	if req.ExecutionDate != "" {
		t, err := time.ParseInLocation("2006-01-02", req.ExecutionDate, s.location())
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad execution_date: want YYYY-MM-DD")
			return
		}
		if err := s.store.SetExecutionDate(id, t); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
	}
	if req.Active {
		if err := s.store.SetActive(id); err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWorkoutDelete(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "workout store not configured")
		return
	}
	id, ok := s.workoutID(w, r)
	if !ok {
		return
	}
	if err := s.store.RemoveWorkout(id); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWorkoutAddExercise(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "workout store not configured")
		return
	}
	id, ok := s.workoutID(w, r)
	if !ok {
		return
	}
	var req struct {
		ExerciseID string `json:"exercise_id"`
		Name       string `json:"name"`
		Sets       int    `json:"sets"`
		Reps       string `json:"reps"`
		Time       string `json:"time"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad JSON body")
		return
	}
	// Catalog entries only need the exercise_id; the name is filled in
	// from the library.
	if req.Name == "" && s.lib != nil && req.ExerciseID != "" {
		if ex, ok := s.lib.ByID(req.ExerciseID); ok {
			req.Name = ex.Name
		}
	}
	entry, err := s.store.AddExercise(id, req.ExerciseID, req.Name, req.Sets, req.Reps, req.Time)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleWorkoutRemoveExercise(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "workout store not configured")
		return
	}
	id, ok := s.workoutID(w, r)
	if !ok {
		return
	}
	entryID, err := uuid.Parse(r.PathValue("entry"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad entry id")
		return
	}
	if err := s.store.RemoveExercise(id, entryID); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWorkoutsHTML(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "workout store not configured", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := render.Workouts(w, s.store.Workouts(), s.lib, render.WorkoutOptions{
		Lang:     s.lang(r),
		Location: s.location(),
	})
	if err != nil {
		appLog.Error("workouts render failed", err)
	}
}

func (s *Server) handleWorkoutsXLSX(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusNotFound, "workout store not configured")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="workouts.xlsx"`)
	if err := export.WorkoutsXLSX(w, s.store.Workouts(), s.lib, s.lang(r), s.location()); err != nil {
		appLog.Error("xlsx export failed", err)
	}
}

// configView is the externally visible subset of the configuration.
// Credentials and filesystem paths stay server-side.
type configView struct {
	Version         string `json:"version"`
	Language        string `json:"language"`
	Timezone        string `json:"timezone"`
	WhatsAppNumber  string `json:"whatsapp_number"`
	BookViaWhatsApp bool   `json:"book_via_whatsapp"`
	RefreshCron     string `json:"refresh"`
	Sources         int    `json:"sources"`
}

func (s *Server) handleConfigGet(w http.ResponseWriter, _ *http.Request) {
	s.cfgMu.RLock()
	view := configView{
		Version:         Version,
		Language:        s.cfg.Language,
		Timezone:        s.cfg.Timezone,
		WhatsAppNumber:  s.cfg.WhatsAppNumber,
		BookViaWhatsApp: s.cfg.BookViaWhatsApp,
		RefreshCron:     s.cfg.RefreshCron,
		Sources:         len(s.cfg.Sources),
	}
	s.cfgMu.RUnlock()
	writeJSON(w, http.StatusOK, view)
}

// handleConfigPut updates the user-tunable settings (language, booking
// contact, booking toggle) and persists the config file.
func (s *Server) handleConfigPut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Language        *string `json:"language"`
		WhatsAppNumber  *string `json:"whatsapp_number"`
		BookViaWhatsApp *bool   `json:"book_via_whatsapp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad JSON body")
		return
	}
	if req.Language != nil {
		switch *req.Language {
		case "en", "es", "cat":
		default:
			writeError(w, http.StatusUnprocessableEntity, "unsupported language")
			return
		}
	}

	s.cfgMu.Lock()
	if req.Language != nil {
		s.cfg.Language = *req.Language
	}
	if req.WhatsAppNumber != nil {
		s.cfg.WhatsAppNumber = *req.WhatsAppNumber
	}
	if req.BookViaWhatsApp != nil {
		s.cfg.BookViaWhatsApp = *req.BookViaWhatsApp
	}
	// Save normalizes the config in place, so it stays under the lock.
	var saveErr error
	if s.cfgPath != "" {
		saveErr = s.cfg.Save(s.cfgPath)
	}
	s.cfgMu.Unlock()

	if saveErr != nil {
		appLog.Error("config save failed", saveErr, "path", s.cfgPath)
		writeError(w, http.StatusInternalServerError, "failed to persist config")
		return
	}
	s.handleConfigGet(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
