// README: Weekly work-hour template stored per technician as JSON.
package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DayTemplate is one weekday entry of a WeeklyWorkTemplate.
type DayTemplate struct {
	Start  TimeOfDay
	End    TimeOfDay
	Active bool
}

// Working reports whether the entry yields a usable work window.
func (d DayTemplate) Working() bool {
	return d.Active && d.End > d.Start
}

// WeeklyWorkTemplate is indexed by time.Weekday.
type WeeklyWorkTemplate [7]DayTemplate

func (w WeeklyWorkTemplate) Day(wd time.Weekday) DayTemplate {
	return w[wd]
}

// HasWorkingDay reports whether any weekday is active.
func (w WeeklyWorkTemplate) HasWorkingDay() bool {
	for _, d := range w {
		if d.Working() {
			return true
		}
	}
	return false
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

type dayTemplateJSON struct {
	Start  string `json:"start"`
	End    string `json:"end"`
	Active bool   `json:"active"`
}

// ParseWeeklyTemplate decodes {"monday": {"start": "08:00", "end": "16:00", "active": true}, ...}.
// Missing weekdays are inactive. Empty input yields an all-inactive template.
func ParseWeeklyTemplate(raw []byte) (WeeklyWorkTemplate, error) {
	var w WeeklyWorkTemplate
	if len(strings.TrimSpace(string(raw))) == 0 || strings.TrimSpace(string(raw)) == "null" {
		return w, nil
	}
	var days map[string]dayTemplateJSON
	if err := json.Unmarshal(raw, &days); err != nil {
		return w, fmt.Errorf("decode work schedule: %w", err)
	}
	for name, d := range days {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return w, fmt.Errorf("unknown weekday %q", name)
		}
		if !d.Active {
			continue
		}
		start, err := ParseTimeOfDay(d.Start)
		if err != nil {
			return w, fmt.Errorf("%s start: %w", name, err)
		}
		end, err := ParseTimeOfDay(d.End)
		if err != nil {
			return w, fmt.Errorf("%s end: %w", name, err)
		}
		w[wd] = DayTemplate{Start: start, End: end, Active: true}
	}
	return w, nil
}

func (w WeeklyWorkTemplate) MarshalJSON() ([]byte, error) {
	out := make(map[string]dayTemplateJSON, len(weekdayNames))
	for name, wd := range weekdayNames {
		d := w[wd]
		out[name] = dayTemplateJSON{Start: d.Start.String(), End: d.End.String(), Active: d.Active}
	}
	return json.Marshal(out)
}

func (w *WeeklyWorkTemplate) UnmarshalJSON(raw []byte) error {
	parsed, err := ParseWeeklyTemplate(raw)
	if err != nil {
		return err
	}
	*w = parsed
	return nil
}
