package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/begoneskadedjur/kundportal-sub014/internal/config"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/travel"
	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

const (
	defaultBookingTitle = "booking"
	defaultAbsenceTitle = "absence"
)

// dayRequest carries the per-search inputs the slot finder needs.
type dayRequest struct {
	Duration time.Duration
	// Travel holds minutes from every home and booking address to the job.
	Travel travel.Table
	// HomeCommute returns minutes from the job back to home; it is only
	// called for candidates near the end of the working day.
	HomeCommute func(home types.Address) int
}

// buildTimeline returns the virtual start followed by bookings and absences
// ordered by start, then end.
func buildTimeline(s DaySchedule) []EventSlot {
	events := make([]EventSlot, 0, len(s.Bookings)+len(s.Absences))
	for _, b := range s.Bookings {
		title := b.Title
		if title == "" {
			title = defaultBookingTitle
		}
		events = append(events, EventSlot{Start: b.Start, End: b.End, Kind: EventBooking, Title: title, Address: b.Address})
	}
	for _, a := range s.Absences {
		title := a.Reason
		if title == "" {
			title = defaultAbsenceTitle
		}
		events = append(events, EventSlot{Start: a.Start, End: a.End, Kind: EventAbsence, Title: title})
	}
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].End.Before(events[j].End)
	})

	start := EventSlot{
		Start:   s.WorkStart,
		End:     s.WorkStart,
		Kind:    EventVirtualStart,
		Title:   "home",
		Address: s.Technician.HomeAddress,
	}
	return append([]EventSlot{start}, events...)
}

// findDaySlots enumerates every candidate start for one technician-day.
// Candidates are returned in timeline order; selection happens in BalanceSuggestions.
func findDaySlots(s DaySchedule, req dayRequest, cfg config.SchedulingConfig) []Suggestion {
	if req.Duration <= 0 || !s.WorkEnd.After(s.WorkStart) {
		return nil
	}
	loc := s.WorkStart.Location()
	stride := cfg.SlotStride()
	if stride <= 0 {
		stride = time.Hour
	}
	durationMinutes := int(req.Duration / time.Minute)
	home := s.Technician.HomeAddress

	timeline := buildTimeline(s)
	var out []Suggestion

	// anchor is the event with the latest end so far; gaps open after it.
	anchor := timeline[0]
	for i := range timeline {
		if i > 0 && !timeline[i].End.Before(anchor.End) {
			anchor = timeline[i]
		}

		gapStart := anchor.End
		gapEnd := s.WorkEnd
		lastGap := true
		if i+1 < len(timeline) && timeline[i+1].Start.Before(s.WorkEnd) {
			gapEnd = timeline[i+1].Start
			lastGap = false
		}
		if !gapEnd.After(gapStart) {
			continue
		}

		firstJob := anchor.Kind == EventVirtualStart
		origin := anchor.Address
		if anchor.Kind != EventBooking {
			origin = home
		}
		travelMinutes := req.Travel.From(origin)

		earliest := s.WorkStart
		if !firstJob {
			earliest = gapStart.Add(time.Duration(travelMinutes) * time.Minute)
			if earliest.Before(s.WorkStart) {
				earliest = s.WorkStart
			}
		}
		latest := gapEnd.Add(-req.Duration)
		if limit := s.WorkEnd.Add(-req.Duration); limit.Before(latest) {
			latest = limit
		}
		if latest.Before(earliest) {
			continue
		}

		gapMinutes := gapEnd.Sub(gapStart).Minutes()
		utilization := float64(travelMinutes+durationMinutes) / gapMinutes

		for start := earliest; !start.After(latest); start = start.Add(stride) {
			end := start.Add(req.Duration)

			var homeMinutes *int
			if lastGap && req.HomeCommute != nil && !end.Before(s.WorkEnd.Add(-cfg.HomeCommuteWindow())) {
				h := req.HomeCommute(home)
				homeMinutes = &h
			}

			out = append(out, Suggestion{
				TechnicianID:          s.Technician.ID,
				TechnicianName:        s.Technician.Name,
				Date:                  s.Day(),
				StartTime:             start,
				EndTime:               end,
				TravelTimeMinutes:     travelMinutes,
				IsFirstJobOfDay:       firstJob,
				TravelTimeHomeMinutes: homeMinutes,
				EfficiencyScore: EfficiencyScore(ScoreInput{
					TravelMinutes:  travelMinutes,
					FirstJob:       firstJob,
					GapUtilization: utilization,
					HomeMinutes:    homeMinutes,
				}),
				OriginDescription: describeOrigin(anchor, firstJob, start, travelMinutes, homeMinutes, loc),
			})
		}
	}
	return out
}

func describeOrigin(anchor EventSlot, firstJob bool, start time.Time, travelMinutes int, homeMinutes *int, loc *time.Location) string {
	var desc string
	if firstJob {
		desc = fmt.Sprintf("from home, arriving at %s", start.In(loc).Format("15:04"))
	} else {
		desc = fmt.Sprintf("after %s (ends %s), arriving at %s (+%d min)",
			anchor.Title, anchor.End.In(loc).Format("15:04"), start.In(loc).Format("15:04"), travelMinutes)
	}
	if homeMinutes != nil {
		desc += fmt.Sprintf(", about %d min commute home", *homeMinutes)
	}
	return desc
}
