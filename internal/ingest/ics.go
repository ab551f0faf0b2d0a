package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	appLog "fitcal/internal/log"
	"fitcal/internal/model"
)

// maxOccurrencesPerEvent caps recurrence expansion so a runaway RRULE
// cannot flood the schedule.
const maxOccurrencesPerEvent = 500

// ICSOptions controls how an ICS feed is turned into class records.
type ICSOptions struct {
	// Location is the display timezone for expanded class times.
	Location *time.Location

	// RangeStart / RangeEnd bound recurrence expansion. Events outside
	// the range contribute no records.
	RangeStart time.Time
	RangeEnd   time.Time
}

// ParseClassesICS parses an iCalendar feed into class records, letting
// a studio publish its schedule straight from any calendar app.
//
// Mapping: SUMMARY becomes the class name, the first line of
// DESCRIPTION the instructor, and an RFC 7986 COLOR property the
// background color. Weekly/daily recurrences (RRULE) are expanded
// within the configured range, honoring EXDATE. All-day events carry
// no usable time interval and are skipped.
func ParseClassesICS(src Source, body []byte, opts ICSOptions) ([]model.ClassRecord, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.RangeEnd.Before(opts.RangeStart) {
		return nil, errors.New("ics: range end is before range start")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ics: %w", err)
	}

	records := make([]model.ClassRecord, 0)
	for _, ve := range cal.Events() {
		recs, perr := expandVEvent(src, ve, opts)
		if perr != nil {
			// Log and skip this event, but keep parsing others.
			appLog.Error("ics event skipped", perr, "id", src.ID)
			continue
		}
		records = append(records, recs...)
	}

	appLog.Info("ics parse completed", "id", src.ID, "class_count", len(records))
	return records, nil
}

func expandVEvent(src Source, ve *ical.VEvent, opts ICSOptions) ([]model.ClassRecord, error) {
	summary := propValue(ve, ical.ComponentPropertySummary)
	if summary == "" {
		return nil, errors.New("missing SUMMARY")
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("DTSTART: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return nil, fmt.Errorf("DTEND: %w", err)
	}

	if isAllDay(ve) {
		appLog.Debug("ics all-day event skipped", "id", src.ID, "summary", summary)
		return nil, nil
	}

	base := model.ClassRecord{
		Name:       summary,
		Instructor: firstLine(propValue(ve, ical.ComponentPropertyDescription)),
		Style:      model.DefaultStyle(),
	}
	if color := propValue(ve, ical.ComponentProperty("COLOR")); color != "" {
		base.Style.BackgroundColor = color
	}

	rawRRule := propValue(ve, ical.ComponentPropertyRrule)
	if rawRRule == "" {
		if !overlaps(start, end, opts.RangeStart, opts.RangeEnd) {
			return nil, nil
		}
		rec := base
		rec.Start = start.In(opts.Location)
		rec.End = end.In(opts.Location)
		return []model.ClassRecord{rec}, nil
	}

	r, err := rrule.StrToRRule(rawRRule)
	if err != nil {
		return nil, fmt.Errorf("RRULE %q: %w", rawRRule, err)
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range exDates(ve) {
		set.ExDate(ex.In(start.Location()))
	}

	occTimes := set.Between(
		opts.RangeStart.In(start.Location()),
		opts.RangeEnd.In(start.Location()),
		true,
	)
	if len(occTimes) > maxOccurrencesPerEvent {
		appLog.Error("ics recurrence truncated",
			errors.New("max occurrences reached"),
			"id", src.ID, "summary", summary, "cap", maxOccurrencesPerEvent)
		occTimes = occTimes[:maxOccurrencesPerEvent]
	}

	dur := end.Sub(start)
	out := make([]model.ClassRecord, 0, len(occTimes))
	for _, occStart := range occTimes {
		rec := base
		rec.Start = occStart.In(opts.Location)
		rec.End = occStart.Add(dur).In(opts.Location)
		out = append(out, rec)
	}
	return out, nil
}

func propValue(ve *ical.VEvent, name ical.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

func isAllDay(ve *ical.VEvent) bool {
	p := ve.GetProperty(ical.ComponentPropertyDtStart)
	if p == nil {
		return false
	}
	if params := p.ICalParameters; params != nil {
		if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			return true
		}
	}
	return !strings.Contains(p.Value, "T")
}

func exDates(ve *ical.VEvent) []time.Time {
	var out []time.Time
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// parseICSTime parses a basic ICS date/date-time string.
func parseICSTime(v string) (time.Time, error) {
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, time.Local)
	default:
		return time.ParseInLocation("20060102", v, time.Local)
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if aEnd.Before(bStart) {
		return false
	}
	if bEnd.Before(aStart) {
		return false
	}
	return true
}
