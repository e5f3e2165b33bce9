package availability

import "math"

// ScoreInput describes one candidate for EfficiencyScore.
type ScoreInput struct {
	TravelMinutes  int
	FirstJob       bool
	GapUtilization float64
	// HomeMinutes is set only for late candidates in the day's last gap.
	HomeMinutes *int
}

// EfficiencyScore rates a candidate slot; higher is better.
//
// First job of the day: 120 - travel.
// Otherwise: max(0, 40 - 0.8*travel) + 40*utilization + proximity bonus
// (20 up to 15 min, 10 up to 25 min).
// Either way, a known commute home adds max(0, 30 - home).
func EfficiencyScore(in ScoreInput) int {
	travel := float64(in.TravelMinutes)

	var score float64
	if in.FirstJob {
		score = 120 - travel
	} else {
		score = math.Max(0, 40-0.8*travel) + clamp01(in.GapUtilization)*40
		switch {
		case in.TravelMinutes <= 15:
			score += 20
		case in.TravelMinutes <= 25:
			score += 10
		}
	}
	if in.HomeMinutes != nil {
		score += math.Max(0, 30-float64(*in.HomeMinutes))
	}
	// math.Round rounds half away from zero
	return int(math.Round(score))
}

// TeamScore is 100 minus the team's summed travel, floored at zero.
func TeamScore(totalTravelMinutes int) int {
	if totalTravelMinutes >= 100 {
		return 0
	}
	return 100 - totalTravelMinutes
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
