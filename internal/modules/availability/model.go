// README: Availability search: daily schedules, candidate slots, team windows, scoring, and ranking.
package availability

import (
	"errors"
	"time"

	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/calendar"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/staff"
	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUpstream       = errors.New("upstream failure")
)

// dateLayout labels the calendar day a suggestion belongs to.
const dateLayout = "2006-01-02"

type EventKind string

const (
	EventVirtualStart EventKind = "virtual_start"
	EventBooking      EventKind = "booking"
	EventAbsence      EventKind = "absence"
)

// EventSlot is one entry on a technician's day timeline.
type EventSlot struct {
	Start   time.Time
	End     time.Time
	Kind    EventKind
	Title   string
	Address types.Address
}

// DaySchedule is one working day of one technician in the facility timezone.
type DaySchedule struct {
	Technician staff.Technician
	Date       time.Time
	WorkStart  time.Time
	WorkEnd    time.Time
	Absences   []calendar.Absence
	Bookings   []calendar.Booking
}

func (d DaySchedule) Day() string { return d.Date.Format(dateLayout) }

type Suggestion struct {
	TechnicianID          types.ID  `json:"technician_id"`
	TechnicianName        string    `json:"technician_name"`
	Date                  string    `json:"date"`
	StartTime             time.Time `json:"start_time"`
	EndTime               time.Time `json:"end_time"`
	TravelTimeMinutes     int       `json:"travel_time_minutes"`
	IsFirstJobOfDay       bool      `json:"is_first_job_of_day"`
	TravelTimeHomeMinutes *int      `json:"travel_time_home_minutes,omitempty"`
	EfficiencyScore       int       `json:"efficiency_score"`
	OriginDescription     string    `json:"origin_description"`
}

type TeamMember struct {
	ID                types.ID `json:"id"`
	Name              string   `json:"name"`
	TravelTimeMinutes int      `json:"travel_time_minutes"`
}

type TeamSuggestion struct {
	Date                   string       `json:"date"`
	Technicians            []TeamMember `json:"technicians"`
	StartTime              time.Time    `json:"start_time"`
	EndTime                time.Time    `json:"end_time"`
	TotalTravelTimeMinutes int          `json:"total_travel_time_minutes"`
	EfficiencyScore        int          `json:"efficiency_score"`
}

// JobQuery is the part shared by single and team searches.
// A zero SearchStartDate means today; a zero SearchDays means the configured default.
type JobQuery struct {
	DestinationAddress string    `json:"destination_address" validate:"required"`
	RequiredSkill      string    `json:"required_skill" validate:"required"`
	DurationMinutes    int       `json:"duration_minutes"`
	SearchStartDate    time.Time `json:"search_start_date"`
	SearchDays         int       `json:"search_days"`
}

func (q JobQuery) Duration() time.Duration {
	return time.Duration(q.DurationMinutes) * time.Minute
}

type SlotQuery struct {
	JobQuery
	TechnicianIDs []types.ID `json:"technician_ids" validate:"omitempty,dive,required"`
}

type TeamQuery struct {
	JobQuery
	TeamSize int `json:"team_size" validate:"min=2"`
}
