package ingest

import (
	"fmt"
	"strings"
	"time"

	"fitcal/internal/model"
)

// The block-text schedule format: classes are separated by "+++" lines,
// each class is a group of labeled lines:
//
//	Class Name Is Morning Yoga
//	Class Instructor Is Alice Smith
//	Class Starts On 04.03.2024
//	Class Starts At 09:00
//	Class Ends On 04.03.2024
//	Class Ends At 10:00
//	Text Color Is #FFFFFF
//	Background Color Is #800080
const blockSeparator = "+++"

const (
	labelName       = "Class Name Is "
	labelInstructor = "Class Instructor Is "
	labelStartDate  = "Class Starts On "
	labelStartTime  = "Class Starts At "
	labelEndDate    = "Class Ends On "
	labelEndTime    = "Class Ends At "
	labelTextColor  = "Text Color Is "
	labelBackground = "Background Color Is "
)

// ParseClassesBlocks parses the delimited block-text schedule format.
// Dates are DD.MM.YYYY, times HH:MM, both interpreted in loc. A block
// missing any of name, start or end fails the whole document.
func ParseClassesBlocks(body []byte, loc *time.Location) ([]model.ClassRecord, error) {
	if loc == nil {
		loc = time.Local
	}

	records := make([]model.ClassRecord, 0)
	for i, block := range strings.Split(string(body), blockSeparator) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		rec, err := parseBlock(block, loc)
		if err != nil {
			return nil, fmt.Errorf("classes blocks: block %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseBlock(block string, loc *time.Location) (model.ClassRecord, error) {
	fields := make(map[string]string)
	style := model.DefaultStyle()

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, labelName):
			fields["name"] = strings.TrimPrefix(line, labelName)
		case strings.HasPrefix(line, labelInstructor):
			fields["instructor"] = strings.TrimPrefix(line, labelInstructor)
		case strings.HasPrefix(line, labelStartDate):
			fields["start_date"] = strings.TrimPrefix(line, labelStartDate)
		case strings.HasPrefix(line, labelStartTime):
			fields["start_time"] = strings.TrimPrefix(line, labelStartTime)
		case strings.HasPrefix(line, labelEndDate):
			fields["end_date"] = strings.TrimPrefix(line, labelEndDate)
		case strings.HasPrefix(line, labelEndTime):
			fields["end_time"] = strings.TrimPrefix(line, labelEndTime)
		case strings.HasPrefix(line, labelTextColor):
			style.TextColor = strings.TrimPrefix(line, labelTextColor)
		case strings.HasPrefix(line, labelBackground):
			style.BackgroundColor = strings.TrimPrefix(line, labelBackground)
		}
		// Unknown lines are ignored so the format can grow.
	}

	for _, required := range []string{"name", "start_date", "start_time", "end_date", "end_time"} {
		if fields[required] == "" {
			return model.ClassRecord{}, fmt.Errorf("missing %s", required)
		}
	}

	start, err := parseBlockTimestamp(fields["start_date"], fields["start_time"], loc)
	if err != nil {
		return model.ClassRecord{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseBlockTimestamp(fields["end_date"], fields["end_time"], loc)
	if err != nil {
		return model.ClassRecord{}, fmt.Errorf("end: %w", err)
	}

	return model.ClassRecord{
		Name:       fields["name"],
		Start:      start,
		End:        end,
		Instructor: fields["instructor"],
		Style:      style,
	}, nil
}

func parseBlockTimestamp(date, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("02.01.2006 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date/time %q %q", date, clock)
	}
	return t, nil
}
