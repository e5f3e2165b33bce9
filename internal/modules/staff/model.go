// README: Technicians as seen by the scheduler (read-only).
package staff

import (
	"context"
	"strings"

	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

type Technician struct {
	ID           types.ID
	Name         string
	HomeAddress  types.Address
	Skills       []string
	Active       bool
	WorkTemplate types.WeeklyWorkTemplate
}

// HasSkill matches case-insensitively.
func (t Technician) HasSkill(skill string) bool {
	want := strings.ToLower(strings.TrimSpace(skill))
	for _, s := range t.Skills {
		if strings.ToLower(strings.TrimSpace(s)) == want {
			return true
		}
	}
	return false
}

// Filter narrows ListTechnicians. Zero values mean "no restriction".
type Filter struct {
	Skill      string
	ActiveOnly bool
	IDs        []types.ID
}

// Directory lists technicians; Store is the Postgres implementation.
type Directory interface {
	ListTechnicians(ctx context.Context, f Filter) ([]Technician, error)
}
