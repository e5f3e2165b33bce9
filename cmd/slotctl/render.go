package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/availability"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderSlots(w io.Writer, out []availability.Suggestion, loc *time.Location) error {
	if len(out) == 0 {
		_, err := fmt.Fprintln(w, "no available slots")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTIME\tTECHNICIAN\tTRAVEL\tHOME\tSCORE\tORIGIN")
	for _, s := range out {
		home := "-"
		if s.TravelTimeHomeMinutes != nil {
			home = fmt.Sprintf("%d min", *s.TravelTimeHomeMinutes)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d min\t%s\t%d\t%s\n",
			s.Date, timeRange(s.StartTime, s.EndTime, loc), s.TechnicianName,
			s.TravelTimeMinutes, home, s.EfficiencyScore, s.OriginDescription)
	}
	return tw.Flush()
}

func renderTeam(w io.Writer, out []availability.TeamSuggestion, loc *time.Location) error {
	if len(out) == 0 {
		_, err := fmt.Fprintln(w, "no team windows")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tTIME\tTEAM\tTOTAL TRAVEL\tSCORE")
	for _, s := range out {
		names := make([]string, len(s.Technicians))
		for i, m := range s.Technicians {
			names[i] = fmt.Sprintf("%s (%d min)", m.Name, m.TravelTimeMinutes)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d min\t%d\n",
			s.Date, timeRange(s.StartTime, s.EndTime, loc), strings.Join(names, ", "),
			s.TotalTravelTimeMinutes, s.EfficiencyScore)
	}
	return tw.Flush()
}

func timeRange(start, end time.Time, loc *time.Location) string {
	return start.In(loc).Format("15:04") + "-" + end.In(loc).Format("15:04")
}
