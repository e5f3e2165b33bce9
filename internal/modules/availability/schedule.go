package availability

import (
	"time"

	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/calendar"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/staff"
	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

// BuildDaySchedules expands each technician's weekly template over the
// days [from, from+days) in loc. Inactive days and days fully covered by a
// single absence produce no schedule. Output is ordered by technician, then day.
func BuildDaySchedules(techs []staff.Technician, entries map[types.ID]calendar.Entries, from time.Time, days int, loc *time.Location) []DaySchedule {
	y, m, d := from.In(loc).Date()

	var out []DaySchedule
	for _, tech := range techs {
		e := entries[tech.ID]
		for i := 0; i < days; i++ {
			dayStart := time.Date(y, m, d+i, 0, 0, 0, 0, loc)
			dayEnd := time.Date(y, m, d+i+1, 0, 0, 0, 0, loc)

			tpl := tech.WorkTemplate.Day(dayStart.Weekday())
			if !tpl.Working() {
				continue
			}
			workStart := tpl.Start.On(dayStart, loc)
			workEnd := tpl.End.On(dayStart, loc)

			absences, covered := absencesForDay(e.Absences, dayStart, dayEnd, workStart, workEnd)
			if covered {
				continue
			}

			var bookings []calendar.Booking
			for _, b := range e.Bookings {
				if !b.Start.Before(dayStart) && b.Start.Before(dayEnd) {
					bookings = append(bookings, b)
				}
			}

			out = append(out, DaySchedule{
				Technician: tech,
				Date:       dayStart,
				WorkStart:  workStart,
				WorkEnd:    workEnd,
				Absences:   absences,
				Bookings:   bookings,
			})
		}
	}
	return out
}

// absencesForDay returns absences touching the day, or covered=true when one
// of them spans the whole work window.
func absencesForDay(all []calendar.Absence, dayStart, dayEnd, workStart, workEnd time.Time) ([]calendar.Absence, bool) {
	var out []calendar.Absence
	for _, a := range all {
		if !a.Overlaps(dayStart, dayEnd) {
			continue
		}
		if a.Covers(workStart, workEnd) {
			return nil, true
		}
		out = append(out, a)
	}
	return out, false
}
