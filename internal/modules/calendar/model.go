// README: Bookings and absences that occupy a technician's time.
package calendar

import (
	"context"
	"strings"
	"time"

	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

type Booking struct {
	ID           types.ID
	TechnicianID types.ID
	Start        time.Time
	End          time.Time
	Title        string
	Address      types.Address
	Status       string
}

type Absence struct {
	ID           types.ID
	TechnicianID types.ID
	Start        time.Time
	End          time.Time
	Reason       string
}

// Covers reports whether the absence spans all of [start, end].
func (a Absence) Covers(start, end time.Time) bool {
	return !a.Start.After(start) && !a.End.Before(end)
}

// Overlaps reports whether the absence intersects [start, end).
func (a Absence) Overlaps(start, end time.Time) bool {
	return a.Start.Before(end) && a.End.After(start)
}

// Entries is everything occupying one technician within a search window.
type Entries struct {
	Bookings []Booking
	Absences []Absence
}

// BookingReader returns bookings assigned to a technician that overlap [from, to).
type BookingReader interface {
	ListByTechnician(ctx context.Context, technicianID types.ID, from, to time.Time) ([]Booking, error)
}

// AbsenceReader returns absences of a technician that overlap [from, to).
type AbsenceReader interface {
	ListByTechnician(ctx context.Context, technicianID types.ID, from, to time.Time) ([]Absence, error)
}

// blocks reports whether a booking occupies time: it must have positive
// duration and a status outside nonBlocking.
func blocks(b Booking, nonBlocking []string) bool {
	if !b.End.After(b.Start) {
		return false
	}
	status := strings.ToLower(strings.TrimSpace(b.Status))
	for _, s := range nonBlocking {
		if status == s {
			return false
		}
	}
	return true
}
