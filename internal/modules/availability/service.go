package availability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/begoneskadedjur/kundportal-sub014/internal/config"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/calendar"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/staff"
	"github.com/begoneskadedjur/kundportal-sub014/internal/modules/travel"
	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

type StaffResolver interface {
	Competent(ctx context.Context, skill string, ids []types.ID) ([]staff.Technician, error)
}

type CalendarSource interface {
	Fetch(ctx context.Context, ids []types.ID, from, to time.Time) (map[types.ID]calendar.Entries, error)
}

type TravelOracle interface {
	Resolve(ctx context.Context, destination types.Address, origins []types.Address) travel.Table
	Between(ctx context.Context, origin, destination types.Address) int
}

type Service struct {
	staff    StaffResolver
	calendar CalendarSource
	travel   TravelOracle
	cfg      config.SchedulingConfig
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(staffResolver StaffResolver, cal CalendarSource, oracle TravelOracle, cfg config.SchedulingConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.FetchConcurrency < 1 {
		cfg.FetchConcurrency = 1
	}
	return &Service{
		staff:    staffResolver,
		calendar: cal,
		travel:   oracle,
		cfg:      cfg,
		validate: newValidator(cfg),
		logger:   logger,
		now:      time.Now,
	}
}

// FindSlots returns ranked single-technician suggestions for a job.
func (s *Service) FindSlots(ctx context.Context, q SlotQuery) ([]Suggestion, error) {
	q.JobQuery = normalizeJob(q.JobQuery)
	if err := s.validate.Struct(q); err != nil {
		return nil, validationError(err, s.cfg)
	}
	destination := types.NewAddress(q.DestinationAddress)

	schedules, err := s.loadSchedules(ctx, q.JobQuery, q.TechnicianIDs)
	if err != nil {
		return nil, err
	}
	if len(schedules) == 0 {
		return []Suggestion{}, nil
	}

	var origins []types.Address
	for _, sched := range schedules {
		origins = append(origins, sched.Technician.HomeAddress)
		for _, b := range sched.Bookings {
			origins = append(origins, b.Address)
		}
	}
	table := s.travel.Resolve(ctx, destination, origins)
	commute := newCommuteLookup(s.travel, destination)

	results := make([][]Suggestion, len(schedules))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FetchConcurrency)
	for i, sched := range schedules {
		g.Go(func() error {
			results[i] = findDaySlots(sched, dayRequest{
				Duration: q.Duration(),
				Travel:   table,
				HomeCommute: func(home types.Address) int {
					return commute.Home(gctx, home)
				},
			}, s.cfg)
			return nil
		})
	}
	_ = g.Wait()

	var all []Suggestion
	for _, r := range results {
		all = append(all, r...)
	}
	out := BalanceSuggestions(all, s.cfg)
	s.logger.Info("slot search finished",
		zap.String("skill", q.RequiredSkill),
		zap.Int("duration_minutes", q.DurationMinutes),
		zap.Int("schedules", len(schedules)),
		zap.Int("travel_origins", table.Len()),
		zap.Int("candidates", len(all)),
		zap.Int("suggestions", len(out)))
	return out, nil
}

// FindTeamSlots returns ranked windows where TeamSize technicians are all free.
func (s *Service) FindTeamSlots(ctx context.Context, q TeamQuery) ([]TeamSuggestion, error) {
	q.JobQuery = normalizeJob(q.JobQuery)
	if err := s.validate.Struct(q); err != nil {
		return nil, validationError(err, s.cfg)
	}
	destination := types.NewAddress(q.DestinationAddress)

	schedules, err := s.loadSchedules(ctx, q.JobQuery, nil)
	if err != nil {
		return nil, err
	}
	days := groupByDate(schedules)
	if len(days) == 0 {
		return []TeamSuggestion{}, nil
	}

	homes := make([]types.Address, 0, len(schedules))
	for _, sched := range schedules {
		homes = append(homes, sched.Technician.HomeAddress)
	}
	table := s.travel.Resolve(ctx, destination, homes)

	results := make([][]TeamSuggestion, len(days))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.FetchConcurrency)
	for i, day := range days {
		g.Go(func() error {
			results[i] = searchTeamDay(day, teamDayRequest{
				Size:     q.TeamSize,
				Duration: q.Duration(),
				Stride:   s.cfg.TeamStride(),
				Travel:   table,
			})
			return nil
		})
	}
	_ = g.Wait()

	var all []TeamSuggestion
	for _, r := range results {
		all = append(all, r...)
	}
	out := RankTeamSuggestions(all, s.cfg)
	s.logger.Info("team search finished",
		zap.String("skill", q.RequiredSkill),
		zap.Int("team_size", q.TeamSize),
		zap.Int("days", len(days)),
		zap.Int("candidates", len(all)),
		zap.Int("suggestions", len(out)))
	return out, nil
}

// loadSchedules resolves staff, fetches their calendars and builds day schedules.
func (s *Service) loadSchedules(ctx context.Context, q JobQuery, ids []types.ID) ([]DaySchedule, error) {
	techs, err := s.staff.Competent(ctx, q.RequiredSkill, ids)
	if err != nil {
		s.logger.Error("resolve competent staff", zap.String("skill", q.RequiredSkill), zap.Error(err))
		return nil, fmt.Errorf("%w: resolve staff: %w", ErrUpstream, err)
	}
	if len(techs) == 0 {
		s.logger.Debug("no competent technicians", zap.String("skill", q.RequiredSkill))
		return nil, nil
	}

	from, to, days := s.window(q)
	techIDs := make([]types.ID, len(techs))
	for i, t := range techs {
		techIDs[i] = t.ID
	}
	entries, err := s.calendar.Fetch(ctx, techIDs, from, to)
	if err != nil {
		s.logger.Error("fetch calendars", zap.Int("technicians", len(techIDs)), zap.Error(err))
		return nil, fmt.Errorf("%w: fetch calendars: %w", ErrUpstream, err)
	}
	return BuildDaySchedules(techs, entries, from, days, s.cfg.Location), nil
}

// window is [start-of-day, start-of-day + days) in the facility timezone.
func (s *Service) window(q JobQuery) (time.Time, time.Time, int) {
	loc := s.cfg.Location
	days := q.SearchDays
	if days == 0 {
		days = s.cfg.SearchDays
	}
	var y int
	var m time.Month
	var d int
	if q.SearchStartDate.IsZero() {
		y, m, d = s.now().In(loc).Date()
	} else {
		// the caller's calendar date, whatever zone it was parsed in
		y, m, d = q.SearchStartDate.Date()
	}
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	to := time.Date(y, m, d+days, 0, 0, 0, 0, loc)
	return from, to, days
}

// commuteLookup memoizes job-to-home travel for one search.
type commuteLookup struct {
	oracle      TravelOracle
	destination types.Address
	group       singleflight.Group

	mu       sync.Mutex
	resolved map[string]int
}

func newCommuteLookup(oracle TravelOracle, destination types.Address) *commuteLookup {
	return &commuteLookup{oracle: oracle, destination: destination, resolved: map[string]int{}}
}

func (c *commuteLookup) Home(ctx context.Context, home types.Address) int {
	key := home.Key()
	c.mu.Lock()
	if m, ok := c.resolved[key]; ok {
		c.mu.Unlock()
		return m
	}
	c.mu.Unlock()

	v, _, _ := c.group.Do(key, func() (any, error) {
		c.mu.Lock()
		if m, ok := c.resolved[key]; ok {
			c.mu.Unlock()
			return m, nil
		}
		c.mu.Unlock()

		m := c.oracle.Between(ctx, c.destination, home)
		c.mu.Lock()
		c.resolved[key] = m
		c.mu.Unlock()
		return m, nil
	})
	return v.(int)
}
