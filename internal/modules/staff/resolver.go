package staff

import (
	"context"

	"go.uber.org/zap"

	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

// Resolver picks the technicians eligible for a job.
type Resolver struct {
	dir    Directory
	logger *zap.Logger
}

func NewResolver(dir Directory, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{dir: dir, logger: logger}
}

// Competent returns active technicians with skill, optionally limited to ids.
// Technicians without a home address or without any working day are left out.
func (r *Resolver) Competent(ctx context.Context, skill string, ids []types.ID) ([]Technician, error) {
	list, err := r.dir.ListTechnicians(ctx, Filter{Skill: skill, ActiveOnly: true, IDs: ids})
	if err != nil {
		return nil, err
	}

	allowed := make(map[types.ID]struct{}, len(ids))
	for _, id := range ids {
		allowed[id] = struct{}{}
	}

	out := make([]Technician, 0, len(list))
	for _, t := range list {
		if !t.Active || !t.HasSkill(skill) {
			continue
		}
		if len(allowed) > 0 {
			if _, ok := allowed[t.ID]; !ok {
				continue
			}
		}
		if t.HomeAddress.IsZero() {
			r.logger.Debug("technician has no home address, skipping",
				zap.String("technician_id", t.ID.String()),
				zap.String("name", t.Name))
			continue
		}
		if !t.WorkTemplate.HasWorkingDay() {
			r.logger.Debug("technician has no working day, skipping",
				zap.String("technician_id", t.ID.String()),
				zap.String("name", t.Name))
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
