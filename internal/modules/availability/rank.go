package availability

import (
	"sort"

	"github.com/begoneskadedjur/kundportal-sub014/internal/config"
)

// BalanceSuggestions spreads suggestions across technicians and days.
// Each (date, technician) group keeps its earliest HighQualityPerDay entries
// when its best score reaches HighQualityScore, otherwise StandardPerDay.
// The result is ordered by date, score desc, start and capped at MaxSuggestions.
func BalanceSuggestions(in []Suggestion, cfg config.SchedulingConfig) []Suggestion {
	type groupKey struct {
		date string
		tech string
	}
	index := map[groupKey]int{}
	var groups [][]Suggestion
	for _, s := range in {
		k := groupKey{date: s.Date, tech: string(s.TechnicianID)}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], s)
	}

	out := make([]Suggestion, 0, len(in))
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].StartTime.Before(g[j].StartTime) })
		top := g[0].EfficiencyScore
		for _, s := range g[1:] {
			if s.EfficiencyScore > top {
				top = s.EfficiencyScore
			}
		}
		keep := cfg.StandardPerDay
		if top >= cfg.HighQualityScore {
			keep = cfg.HighQualityPerDay
		}
		if keep > len(g) {
			keep = len(g)
		}
		out = append(out, g[:keep]...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.EfficiencyScore != b.EfficiencyScore {
			return a.EfficiencyScore > b.EfficiencyScore
		}
		return a.StartTime.Before(b.StartTime)
	})
	if cfg.MaxSuggestions >= 0 && len(out) > cfg.MaxSuggestions {
		out = out[:cfg.MaxSuggestions]
	}
	return out
}

// RankTeamSuggestions orders by start, then score desc, capped at MaxTeamSuggestions.
func RankTeamSuggestions(in []TeamSuggestion, cfg config.SchedulingConfig) []TeamSuggestion {
	out := append([]TeamSuggestion(nil), in...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.StartTime.Equal(b.StartTime) {
			return a.StartTime.Before(b.StartTime)
		}
		return a.EfficiencyScore > b.EfficiencyScore
	})
	if cfg.MaxTeamSuggestions >= 0 && len(out) > cfg.MaxTeamSuggestions {
		out = out[:cfg.MaxTeamSuggestions]
	}
	if out == nil {
		out = []TeamSuggestion{}
	}
	return out
}
