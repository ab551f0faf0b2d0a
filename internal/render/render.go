// Package render produces the printable HTML views: the weekly class
// schedule grid and the workout-plan sheets. The HTML is what the
// browser capture step screenshots or prints to PDF.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fitcal/internal/i18n"
	"fitcal/internal/library"
	"fitcal/internal/model"
	"fitcal/internal/schedule"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// ScheduleOptions controls localization and booking links in the grid.
type ScheduleOptions struct {
	Lang            string
	WhatsAppNumber  string
	BookViaWhatsApp bool
	Location        *time.Location
}

type scheduleView struct {
	Lang      string
	Title     string
	DateLabel string
	Days      []dayView
	Rows      []rowView
}

type dayView struct {
	Label       string
	Date        string
	Highlighted bool
}

type rowView struct {
	Interval string
	Cells    []cellView
}

type cellView struct {
	Empty           bool
	Name            string
	Instructor      string
	TextColor       string
	BackgroundColor string
	Highlighted     bool
	WhatsAppURL     string
	BookLabel       string
}

// Schedule writes the weekly grid as a standalone HTML document.
func Schedule(w io.Writer, grid schedule.GridModel, opts ScheduleOptions) error {
	lang := opts.Lang
	if lang == "" {
		lang = i18n.DefaultLang
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	view := scheduleView{
		Lang:      lang,
		Title:     i18n.T(lang, "schedule_title"),
		DateLabel: fmt.Sprintf("%s: %s", i18n.T(lang, "schedule_date_label"), grid.Highlighted.String()),
	}

	for _, day := range grid.Days {
		view.Days = append(view.Days, dayView{
			Label:       i18n.Weekday(lang, day.Weekday()),
			Date:        day.String(),
			Highlighted: grid.IsHighlighted(day),
		})
	}

	for _, iv := range grid.Intervals {
		row := rowView{Interval: iv.String()}
		for _, day := range grid.Days {
			rec, ok := grid.Cell(day, iv)
			if !ok {
				row.Cells = append(row.Cells, cellView{Empty: true, Highlighted: grid.IsHighlighted(day)})
				continue
			}
			cell := cellView{
				Name:            rec.Name,
				Instructor:      rec.Instructor,
				TextColor:       rec.Style.TextColor,
				BackgroundColor: rec.Style.BackgroundColor,
				Highlighted:     grid.IsHighlighted(day),
				BookLabel:       i18n.T(lang, "book_via_whatsapp"),
			}
			if opts.BookViaWhatsApp && opts.WhatsAppNumber != "" {
				cell.WhatsAppURL = whatsAppLink(opts.WhatsAppNumber, lang, rec, loc)
			}
			row.Cells = append(row.Cells, cell)
		}
		view.Rows = append(view.Rows, row)
	}

	return templates.ExecuteTemplate(w, "schedule.html", view)
}

// whatsAppLink builds a wa.me deep link carrying a prefilled booking
// message for one class.
func whatsAppLink(number, lang string, rec model.ClassRecord, loc *time.Location) string {
	msg := i18n.WhatsAppMessage(lang, rec.Name, rec.Instructor,
		rec.Start.In(loc).Format("2006-01-02"),
		rec.Start.In(loc).Format("15:04"))
	return "https://wa.me/" + url.PathEscape(number) + "?text=" + url.QueryEscape(msg)
}

// WorkoutOptions controls localization of the workout sheets.
type WorkoutOptions struct {
	Lang     string
	Location *time.Location
}

type workoutsView struct {
	Lang     string
	Title    string
	Workouts []workoutView
}

type workoutView struct {
	Heading    string
	ExecutedOn string
	Columns    workoutColumns
	Rows       []workoutRow
}

type workoutColumns struct {
	Exercise string
	Sets     string
	RepsTime string
	Weight   string
	Notes    string
}

type workoutRow struct {
	Name     string
	Notes    string
	Sets     int
	RepsTime string
	Blanks   []string
}

func workoutHeading(lang string, n, total int, date string) string {
	return strings.NewReplacer(
		"{n}", strconv.Itoa(n),
		"{total}", strconv.Itoa(total),
		"{date}", date,
	).Replace(i18n.T(lang, "workout_n_of"))
}

// Workouts writes all workout plans as a standalone HTML document,
// one printable sheet per workout. The exercise library, when given,
// supplies per-exercise notes.
func Workouts(w io.Writer, workouts []model.Workout, lib *library.Index, opts WorkoutOptions) error {
	lang := opts.Lang
	if lang == "" {
		lang = i18n.DefaultLang
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	view := workoutsView{
		Lang:  lang,
		Title: i18n.T(lang, "workouts_title"),
	}
	total := len(workouts)
	for n, wo := range workouts {
		date := wo.ExecutionDate.In(loc).Format("2006-01-02")
		wv := workoutView{
			Heading:    workoutHeading(lang, n+1, total, date),
			ExecutedOn: fmt.Sprintf("%s %s", i18n.T(lang, "executed_on"), date),
			Columns: workoutColumns{
				Exercise: i18n.T(lang, "exercise"),
				Sets:     i18n.T(lang, "sets"),
				RepsTime: i18n.T(lang, "reps_time"),
				Weight:   i18n.T(lang, "weight"),
				Notes:    i18n.T(lang, "notes"),
			},
		}
		for _, ex := range wo.Exercises {
			row := workoutRow{
				Name: ex.Name,
				Sets: ex.Sets,
			}
			switch {
			case ex.Reps != "":
				row.RepsTime = ex.Reps
			case ex.Time != "":
				row.RepsTime = ex.Time
			default:
				row.RepsTime = "-"
			}
			// One blank per set for handwritten weights.
			for i := 0; i < ex.Sets; i++ {
				row.Blanks = append(row.Blanks, "___")
			}
			if lib != nil {
				if full, ok := lib.ByID(ex.ExerciseID); ok {
					row.Notes = full.KeyCues
				}
			}
			wv.Rows = append(wv.Rows, row)
		}
		view.Workouts = append(view.Workouts, wv)
	}

	return templates.ExecuteTemplate(w, "workouts.html", view)
}
