package availability

import (
	"sort"
	"time"

	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/travel"
)

// teamDayRequest carries the per-search inputs of a team search.
type teamDayRequest struct {
	Size     int
	Duration time.Duration
	Stride   time.Duration
	// Travel holds minutes from every member's home to the job.
	Travel travel.Table
}

// groupByDate buckets schedules per calendar day, days ascending.
func groupByDate(schedules []DaySchedule) [][]DaySchedule {
	index := map[string]int{}
	var days [][]DaySchedule
	for _, s := range schedules {
		key := s.Day()
		i, ok := index[key]
		if !ok {
			i = len(days)
			index[key] = i
			days = append(days, nil)
		}
		days[i] = append(days[i], s)
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i][0].Date.Before(days[j][0].Date)
	})
	return days
}

// combinations calls fn with every k-subset of [0, n) in lexicographic order.
// idx is reused between calls.
func combinations(n, k int, fn func(idx []int)) {
	if k <= 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	for {
		fn(idx)
		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

// searchTeamDay finds every start where req.Size technicians from one day are
// all free for the whole duration. Members are combined in technician-id order.
func searchTeamDay(day []DaySchedule, req teamDayRequest) []TeamSuggestion {
	if req.Duration <= 0 || req.Stride <= 0 || req.Size < 2 || len(day) < req.Size {
		return nil
	}
	members := append([]DaySchedule(nil), day...)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].Technician.ID < members[j].Technician.ID
	})

	var out []TeamSuggestion
	combinations(len(members), req.Size, func(idx []int) {
		team := make([]DaySchedule, len(idx))
		for i, n := range idx {
			team[i] = members[n]
		}

		teamStart, teamEnd := team[0].WorkStart, team[0].WorkEnd
		for _, m := range team[1:] {
			if m.WorkStart.After(teamStart) {
				teamStart = m.WorkStart
			}
			if m.WorkEnd.Before(teamEnd) {
				teamEnd = m.WorkEnd
			}
		}
		if !teamStart.Before(teamEnd) {
			return
		}

		roster := make([]TeamMember, len(team))
		total := 0
		for i, m := range team {
			minutes := req.Travel.From(m.Technician.HomeAddress)
			roster[i] = TeamMember{ID: m.Technician.ID, Name: m.Technician.Name, TravelTimeMinutes: minutes}
			total += minutes
		}
		score := TeamScore(total)

		last := teamEnd.Add(-req.Duration)
		for start := teamStart; !start.After(last); start = start.Add(req.Stride) {
			end := start.Add(req.Duration)
			if !teamFree(team, start, end) {
				continue
			}
			out = append(out, TeamSuggestion{
				Date:                   team[0].Day(),
				Technicians:            append([]TeamMember(nil), roster...),
				StartTime:              start,
				EndTime:                end,
				TotalTravelTimeMinutes: total,
				EfficiencyScore:        score,
			})
		}
	})
	return out
}

func teamFree(team []DaySchedule, start, end time.Time) bool {
	for _, m := range team {
		for _, b := range m.Bookings {
			if b.Start.Before(end) && b.End.After(start) {
				return false
			}
		}
		for _, a := range m.Absences {
			if a.Overlaps(start, end) {
				return false
			}
		}
	}
	return true
}
