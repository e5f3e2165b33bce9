package travel

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/begoneskadedjur/kundportal-sub014/internal/config"
	"github.com/begoneskadedjur/kundportal-sub014/internal/maps"
	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

// Oracle answers travel-time questions for one search at a time.
// It keeps no cache between calls to Resolve.
type Oracle struct {
	provider Provider
	gate     Gate
	limiter  *rate.Limiter
	cfg      config.SchedulingConfig
	logger   *zap.Logger

	// mu keeps a single provider batch in flight within the process.
	mu sync.Mutex
}

// NewOracle wires the oracle. A nil provider makes every lookup fall back to
// DefaultTravelMinutes; a nil gate disables cross-replica serialization.
func NewOracle(provider Provider, gate Gate, cfg config.SchedulingConfig, logger *zap.Logger) *Oracle {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gate == nil {
		gate = noopGate{}
	}
	limit := rate.Inf
	if cfg.ProviderPause() > 0 {
		limit = rate.Every(cfg.ProviderPause())
	}
	if cfg.ProviderBatchSize < 1 || cfg.ProviderBatchSize > maps.MaxOrigins {
		cfg.ProviderBatchSize = maps.MaxOrigins
	}
	return &Oracle{
		provider: provider,
		gate:     gate,
		limiter:  rate.NewLimiter(limit, 1),
		cfg:      cfg,
		logger:   logger,
	}
}

// Resolve returns minutes from every origin to destination. Each distinct
// origin is sent to the provider at most once; failures degrade to the default.
func (o *Oracle) Resolve(ctx context.Context, destination types.Address, origins []types.Address) Table {
	table := Table{
		destination: destination,
		minutes:     make(map[string]int, len(origins)),
		fallback:    o.cfg.DefaultTravelMinutes,
	}

	var pending []types.Address
	for _, origin := range origins {
		key := origin.Key()
		if key == "" {
			continue
		}
		if _, seen := table.minutes[key]; seen {
			continue
		}
		if origin.SameAs(destination) {
			table.minutes[key] = o.cfg.SameAddressMinutes
			continue
		}
		// placeholder until the batch answers
		table.minutes[key] = o.cfg.DefaultTravelMinutes
		pending = append(pending, origin)
	}
	if len(pending) == 0 || destination.IsZero() {
		return table
	}
	if o.provider == nil {
		o.logger.Debug("no travel provider configured, using default travel time",
			zap.Int("origins", len(pending)))
		return table
	}

	for start := 0; start < len(pending); start += o.cfg.ProviderBatchSize {
		end := start + o.cfg.ProviderBatchSize
		if end > len(pending) {
			end = len(pending)
		}
		batch := pending[start:end]
		estimates, err := o.runBatch(ctx, batch, destination)
		if err != nil {
			o.logger.Warn("travel batch failed, using default travel time",
				zap.String("destination", destination.String()),
				zap.Int("origins", len(batch)),
				zap.Error(err))
			continue
		}
		for i, origin := range batch {
			if i < len(estimates) && estimates[i].Found {
				table.minutes[origin.Key()] = estimates[i].Minutes
				continue
			}
			o.logger.Debug("no route for origin, using default travel time",
				zap.String("origin", origin.String()),
				zap.String("destination", destination.String()))
		}
	}
	return table
}

// Between is a single-origin Resolve.
func (o *Oracle) Between(ctx context.Context, origin, destination types.Address) int {
	return o.Resolve(ctx, destination, []types.Address{origin}).From(origin)
}

func (o *Oracle) runBatch(ctx context.Context, batch []types.Address, destination types.Address) ([]maps.Estimate, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	release, err := o.gate.Acquire(ctx)
	if err != nil {
		o.logger.Warn("provider gate unavailable, proceeding without it", zap.Error(err))
	} else {
		defer release()
	}

	origins := make([]string, len(batch))
	for i, a := range batch {
		origins[i] = a.String()
	}
	return o.provider.DrivingMinutes(ctx, origins, destination.String())
}
