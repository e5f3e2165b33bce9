package availability

import (
	"context"
	"sync"
	"time"

	"github.com/begoneskadedjur/kundportal-sub014/internal/config"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/calendar"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/staff"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/travel"
	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

// ---------------------------------------------------------------------------
// Shared fixtures
// ---------------------------------------------------------------------------

const jobAddress = "Drottninggatan 10, Stockholm"

var (
	testCfg = config.DefaultScheduling()
	loc     = testCfg.Location
	// monday is 2025-03-03, a Monday.
	monday = time.Date(2025, time.March, 3, 0, 0, 0, 0, loc)
)

func at(day time.Time, h, m int) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, loc)
}

func weekdays(start, end string) types.WeeklyWorkTemplate {
	s, _ := types.ParseTimeOfDay(start)
	e, _ := types.ParseTimeOfDay(end)
	var w types.WeeklyWorkTemplate
	for wd := time.Monday; wd <= time.Friday; wd++ {
		w[wd] = types.DayTemplate{Start: s, End: e, Active: true}
	}
	return w
}

func technician(id, name, home string) staff.Technician {
	return staff.Technician{
		ID:           types.ID(id),
		Name:         name,
		HomeAddress:  types.NewAddress(home),
		Skills:       []string{"rats"},
		Active:       true,
		WorkTemplate: weekdays("08:00", "16:00"),
	}
}

func schedule(t staff.Technician, day time.Time, bookings []calendar.Booking, absences []calendar.Absence) DaySchedule {
	return DaySchedule{
		Technician: t,
		Date:       at(day, 0, 0),
		WorkStart:  at(day, 8, 0),
		WorkEnd:    at(day, 16, 0),
		Bookings:   bookings,
		Absences:   absences,
	}
}

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeResolver struct {
	mu    sync.Mutex
	techs []staff.Technician
	err   error
	calls int
}

func (f *fakeResolver) Competent(_ context.Context, skill string, ids []types.ID) ([]staff.Technician, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []staff.Technician
	for _, t := range f.techs {
		if t.HasSkill(skill) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeCalendar struct {
	mu      sync.Mutex
	entries map[types.ID]calendar.Entries
	err     error
	calls   int
}

func (f *fakeCalendar) Fetch(_ context.Context, ids []types.ID, _, _ time.Time) (map[types.ID]calendar.Entries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[types.ID]calendar.Entries, len(ids))
	for _, id := range ids {
		out[id] = f.entries[id]
	}
	return out, nil
}

// fakeOracle answers every origin with a fixed time unless overridden.
type fakeOracle struct {
	mu        sync.Mutex
	minutes   int
	overrides map[string]int
	calls     int
}

func (f *fakeOracle) Resolve(_ context.Context, destination types.Address, origins []types.Address) travel.Table {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	values := map[types.Address]int{}
	for _, o := range origins {
		switch {
		case o.SameAs(destination):
			values[o] = 1
		case f.overrides[o.Key()] != 0:
			values[o] = f.overrides[o.Key()]
		default:
			values[o] = f.minutes
		}
	}
	return travel.NewTable(destination, 30, values)
}

func (f *fakeOracle) Between(ctx context.Context, origin, destination types.Address) int {
	return f.Resolve(ctx, destination, []types.Address{origin}).From(origin)
}

func (f *fakeOracle) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func tableOf(minutes map[string]int) travel.Table {
	values := map[types.Address]int{}
	for k, v := range minutes {
		values[types.Address(k)] = v
	}
	return travel.NewTable(jobAddress, 30, values)
}
