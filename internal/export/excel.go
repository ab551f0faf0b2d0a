// Package export builds spreadsheet exports of workout plans.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"fitcal/internal/i18n"
	"fitcal/internal/library"
	"fitcal/internal/model"
)

// WorkoutsXLSX writes one workbook with a sheet per workout. Each
// sheet carries the configured exercises plus empty weight columns for
// handwritten (or typed-in) results.
func WorkoutsXLSX(w io.Writer, workouts []model.Workout, lib *library.Index, lang string, loc *time.Location) error {
	if lang == "" {
		lang = i18n.DefaultLang
	}
	if loc == nil {
		loc = time.Local
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"34495E"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})

	total := len(workouts)
	for n, wo := range workouts {
		// Sheet names double as tabs; keep them short and unique.
		sheet := fmt.Sprintf("Workout %d", n+1)
		if n == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("export: new sheet: %w", err)
			}
		}

		date := wo.ExecutionDate.In(loc).Format("2006-01-02")
		title := workoutTitle(lang, n+1, total, date)
		f.SetCellValue(sheet, "A1", title)
		f.MergeCell(sheet, "A1", "E1")
		f.SetCellStyle(sheet, "A1", "E1", titleStyle)
		f.SetRowHeight(sheet, 1, 24)

		f.SetCellValue(sheet, "A2", fmt.Sprintf("%s %s", i18n.T(lang, "executed_on"), date))

		headers := []string{
			i18n.T(lang, "exercise"),
			i18n.T(lang, "sets"),
			i18n.T(lang, "reps_time"),
			i18n.T(lang, "weight"),
			i18n.T(lang, "notes"),
		}
		for i, h := range headers {
			cell := fmt.Sprintf("%s4", colName(i+1))
			f.SetCellValue(sheet, cell, h)
			f.SetCellStyle(sheet, cell, cell, headerStyle)
		}

		row := 5
		for _, ex := range wo.Exercises {
			f.SetCellValue(sheet, fmt.Sprintf("A%d", row), ex.Name)
			f.SetCellValue(sheet, fmt.Sprintf("B%d", row), ex.Sets)
			switch {
			case ex.Reps != "":
				f.SetCellValue(sheet, fmt.Sprintf("C%d", row), ex.Reps)
			case ex.Time != "":
				f.SetCellValue(sheet, fmt.Sprintf("C%d", row), ex.Time)
			}
			// Column D stays empty for results.
			if lib != nil {
				if full, ok := lib.ByID(ex.ExerciseID); ok && full.KeyCues != "" {
					f.SetCellValue(sheet, fmt.Sprintf("E%d", row), full.KeyCues)
				}
			}
			row++
		}

		f.SetColWidth(sheet, "A", "A", 28)
		f.SetColWidth(sheet, "B", "B", 8)
		f.SetColWidth(sheet, "C", "C", 14)
		f.SetColWidth(sheet, "D", "D", 14)
		f.SetColWidth(sheet, "E", "E", 40)
	}

	if total == 0 {
		// An empty workbook still needs its default sheet.
		f.SetCellValue("Sheet1", "A1", i18n.T(lang, "workouts_title"))
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func workoutTitle(lang string, n, total int, date string) string {
	return strings.NewReplacer(
		"{n}", strconv.Itoa(n),
		"{total}", strconv.Itoa(total),
		"{date}", date,
	).Replace(i18n.T(lang, "workout_n_of"))
}

// colName returns the spreadsheet column name for index (1 = A).
func colName(n int) string {
	result := ""
	for n > 0 {
		n--
		result = string(rune('A'+n%26)) + result
		n /= 26
	}
	return result
}
