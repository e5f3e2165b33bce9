// README: Technician directory backed by PostgreSQL.
package staff

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) ListTechnicians(ctx context.Context, f Filter) ([]Technician, error) {
	query, args := buildListQuery(f)
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Technician
	for rows.Next() {
		var (
			id, name, address, schedule string
			t                           Technician
		)
		if err := rows.Scan(&id, &name, &address, &t.Skills, &t.Active, &schedule); err != nil {
			return nil, err
		}
		t.ID = types.ID(id)
		t.Name = name
		if t.HomeAddress, err = types.ParseAddressString(address); err != nil {
			return nil, fmt.Errorf("technician %s address: %w", id, err)
		}
		if t.WorkTemplate, err = types.ParseWeeklyTemplate([]byte(schedule)); err != nil {
			return nil, fmt.Errorf("technician %s work schedule: %w", id, err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func buildListQuery(f Filter) (string, []any) {
	query := `
        SELECT id::text, name, COALESCE(address::text, ''), COALESCE(skills, '{}'), is_active,
               COALESCE(work_schedule::text, '')
        FROM technicians`
	args := []any{}
	clauses := []string{}

	if skill := strings.TrimSpace(f.Skill); skill != "" {
		args = append(args, strings.ToLower(skill))
		clauses = append(clauses, fmt.Sprintf("EXISTS (SELECT 1 FROM unnest(skills) AS s WHERE lower(s) = $%d)", len(args)))
	}
	if f.ActiveOnly {
		clauses = append(clauses, "is_active")
	}
	if len(f.IDs) > 0 {
		ids := make([]string, len(f.IDs))
		for i, id := range f.IDs {
			ids[i] = string(id)
		}
		args = append(args, ids)
		clauses = append(clauses, fmt.Sprintf("id::text = ANY($%d)", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY name, id"
	return query, args
}
