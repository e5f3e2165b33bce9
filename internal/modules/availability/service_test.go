package availability

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/calendar"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/staff"
	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

func newTestService(techs []staff.Technician, entries map[types.ID]calendar.Entries, minutes int) (*Service, *fakeResolver, *fakeCalendar, *fakeOracle) {
	resolver := &fakeResolver{techs: techs}
	cal := &fakeCalendar{entries: entries}
	oracle := &fakeOracle{minutes: minutes}
	svc := NewService(resolver, cal, oracle, testCfg, nil)
	svc.now = func() time.Time { return at(monday, 7, 0) }
	return svc, resolver, cal, oracle
}

func job(duration int) JobQuery {
	return JobQuery{DestinationAddress: jobAddress, RequiredSkill: "rats", DurationMinutes: duration}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestFindSlots_RejectsShortDurationBeforeFetching(t *testing.T) {
	svc, resolver, cal, oracle := newTestService([]staff.Technician{technician("t1", "Anna", annaHome)}, nil, 20)

	_, err := svc.FindSlots(context.Background(), SlotQuery{JobQuery: job(20)})

	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if !strings.Contains(err.Error(), "duration_minutes must be between 30 and 480") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if resolver.calls != 0 || cal.calls != 0 || oracle.callCount() != 0 {
		t.Fatalf("expected no fetches, got staff=%d calendar=%d travel=%d", resolver.calls, cal.calls, oracle.callCount())
	}
}

func TestFindSlots_ValidationMessages(t *testing.T) {
	svc, _, _, _ := newTestService(nil, nil, 20)
	cases := []struct {
		name string
		q    SlotQuery
		want string
	}{
		{"blank address", SlotQuery{JobQuery: JobQuery{DestinationAddress: "  ", RequiredSkill: "rats", DurationMinutes: 60}}, "destination_address is required"},
		{"missing skill", SlotQuery{JobQuery: JobQuery{DestinationAddress: jobAddress, DurationMinutes: 60}}, "required_skill is required"},
		{"too long", SlotQuery{JobQuery: job(481)}, "duration_minutes must be between"},
		{"too many days", SlotQuery{JobQuery: JobQuery{DestinationAddress: jobAddress, RequiredSkill: "rats", DurationMinutes: 60, SearchDays: 60}}, "search_days must be between 1 and 31"},
		{"blank technician id", SlotQuery{JobQuery: job(60), TechnicianIDs: []types.ID{""}}, "technician_ids[0] is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.FindSlots(context.Background(), tc.q)
			if !errors.Is(err, ErrInvalidRequest) || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestFindTeamSlots_RejectsTeamOfOne(t *testing.T) {
	svc, resolver, _, _ := newTestService(nil, nil, 20)
	_, err := svc.FindTeamSlots(context.Background(), TeamQuery{JobQuery: job(60), TeamSize: 1})
	if !errors.Is(err, ErrInvalidRequest) || !strings.Contains(err.Error(), "team_size must be at least 2") {
		t.Fatalf("expected team size error, got %v", err)
	}
	if resolver.calls != 0 {
		t.Fatal("staff must not be resolved for an invalid request")
	}
}

// ---------------------------------------------------------------------------
// Single technician
// ---------------------------------------------------------------------------

func TestFindSlots_EmptyMondayScenario(t *testing.T) {
	svc, _, _, _ := newTestService([]staff.Technician{technician("t1", "Anna", annaHome)}, nil, 20)

	got, err := svc.FindSlots(context.Background(), SlotQuery{JobQuery: job(60)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 20 {
		t.Fatalf("expected 20 suggestions across the week, got %d", len(got))
	}
	first := got[0]
	if !first.StartTime.Equal(at(monday, 8, 0)) || !first.IsFirstJobOfDay {
		t.Fatalf("expected monday 08:00 first job, got %+v", first)
	}
	if first.TravelTimeMinutes != 20 || first.EfficiencyScore != 100 {
		t.Fatalf("expected travel 20 score 100, got %d/%d", first.TravelTimeMinutes, first.EfficiencyScore)
	}
}

func TestNewService_ZeroConcurrencyStillSearches(t *testing.T) {
	cfg := testCfg
	cfg.FetchConcurrency = 0
	techs := []staff.Technician{technician("t1", "Anna", annaHome), technician("t2", "Bo", "Home B")}
	svc := NewService(&fakeResolver{techs: techs}, &fakeCalendar{}, &fakeOracle{minutes: 20}, cfg, nil)
	svc.now = func() time.Time { return at(monday, 7, 0) }

	done := make(chan error, 1)
	go func() {
		if _, err := svc.FindSlots(context.Background(), SlotQuery{JobQuery: job(60)}); err != nil {
			done <- err
			return
		}
		_, err := svc.FindTeamSlots(context.Background(), TeamQuery{JobQuery: job(60), TeamSize: 2})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("search did not finish with FetchConcurrency=0")
	}
}

func TestFindSlots_HomeCommuteResolvedOncePerHome(t *testing.T) {
	svc, _, _, oracle := newTestService([]staff.Technician{technician("t1", "Anna", annaHome)}, nil, 20)
	q := SlotQuery{JobQuery: job(60)}
	q.SearchDays = 1

	if _, err := svc.FindSlots(context.Background(), q); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// one batch for outbound travel, one memoized lookup for the commute home
	if oracle.callCount() != 2 {
		t.Fatalf("expected 2 oracle calls, got %d", oracle.callCount())
	}
}

func TestFindSlots_SearchStartDateAndSubset(t *testing.T) {
	techs := []staff.Technician{technician("t1", "Anna", annaHome), technician("t2", "Bo", "Home B")}
	svc, _, _, _ := newTestService(techs, nil, 20)
	wednesday := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	q := SlotQuery{JobQuery: job(60)}
	q.SearchStartDate = wednesday
	q.SearchDays = 1
	got, err := svc.FindSlots(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, s := range got {
		if s.Date != "2025-03-05" {
			t.Fatalf("expected only wednesday, got %s", s.Date)
		}
	}
	if len(got) != 10 {
		t.Fatalf("expected 5 per technician, got %d", len(got))
	}
}

func TestFindSlots_NoCompetentStaff(t *testing.T) {
	svc, _, cal, _ := newTestService(nil, nil, 20)
	got, err := svc.FindSlots(context.Background(), SlotQuery{JobQuery: job(60)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %v", got)
	}
	if cal.calls != 0 {
		t.Fatal("calendars must not be fetched without staff")
	}
}

func TestFindSlots_StoreErrorIsUpstream(t *testing.T) {
	svc, _, cal, _ := newTestService([]staff.Technician{technician("t1", "Anna", annaHome)}, nil, 20)
	cal.err = errors.New("connection reset")

	if _, err := svc.FindSlots(context.Background(), SlotQuery{JobQuery: job(60)}); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Team
// ---------------------------------------------------------------------------

func TestFindTeamSlots_SingleCompetentTechnician(t *testing.T) {
	anna := technician("t1", "Anna", annaHome)
	bo := technician("t2", "Bo", "Home B")
	bo.Skills = []string{"wasps"}
	svc, _, _, _ := newTestService([]staff.Technician{anna, bo}, nil, 20)

	got, err := svc.FindTeamSlots(context.Background(), TeamQuery{JobQuery: job(60), TeamSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no team suggestions, got %d", len(got))
	}
}

func TestFindTeamSlots_RanksEarliestFirst(t *testing.T) {
	anna := technician("t1", "Anna", annaHome)
	bo := technician("t2", "Bo", "Home B")
	entries := map[types.ID]calendar.Entries{
		"t1": {Bookings: []calendar.Booking{{Start: at(monday, 8, 0), End: at(monday, 9, 0)}}},
	}
	svc, _, _, _ := newTestService([]staff.Technician{anna, bo}, entries, 20)

	got, err := svc.FindTeamSlots(context.Background(), TeamQuery{JobQuery: job(120), TeamSize: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 10 {
		t.Fatalf("expected cap of 10, got %d", len(got))
	}
	if !got[0].StartTime.Equal(at(monday, 9, 0)) {
		t.Fatalf("expected first window at 09:00, got %v", got[0].StartTime)
	}
	if got[0].TotalTravelTimeMinutes != 40 || got[0].EfficiencyScore != 60 {
		t.Fatalf("expected travel 40 score 60, got %d/%d", got[0].TotalTravelTimeMinutes, got[0].EfficiencyScore)
	}
}
