// README: Booking and absence stores backed by PostgreSQL.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

type BookingStore struct {
	db          *pgxpool.Pool
	nonBlocking []string
}

func NewBookingStore(db *pgxpool.Pool, nonBlockingStatuses []string) *BookingStore {
	return &BookingStore{db: db, nonBlocking: nonBlockingStatuses}
}

func (s *BookingStore) ListByTechnician(ctx context.Context, technicianID types.ID, from, to time.Time) ([]Booking, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id::text, start_time, end_time, COALESCE(title, ''), COALESCE(address::text, ''), COALESCE(status, '')
        FROM bookings
        WHERE $1 = ANY(technician_ids)
          AND start_time < $3
          AND end_time > $2
          AND end_time > start_time
          AND NOT (lower(COALESCE(status, '')) = ANY($4))
        ORDER BY start_time, end_time`,
		string(technicianID), from, to, nonNilStrings(s.nonBlocking),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Booking
	for rows.Next() {
		var (
			id, address string
			b           Booking
		)
		if err := rows.Scan(&id, &b.Start, &b.End, &b.Title, &address, &b.Status); err != nil {
			return nil, err
		}
		b.ID = types.ID(id)
		b.TechnicianID = technicianID
		if b.Address, err = types.ParseAddressString(address); err != nil {
			return nil, fmt.Errorf("booking %s address: %w", id, err)
		}
		result = append(result, b)
	}
	return result, rows.Err()
}

type AbsenceStore struct {
	db *pgxpool.Pool
}

func NewAbsenceStore(db *pgxpool.Pool) *AbsenceStore {
	return &AbsenceStore{db: db}
}

func (s *AbsenceStore) ListByTechnician(ctx context.Context, technicianID types.ID, from, to time.Time) ([]Absence, error) {
	rows, err := s.db.Query(ctx, `
        SELECT id::text, start_date, end_date, COALESCE(reason, '')
        FROM technician_absences
        WHERE technician_id::text = $1
          AND start_date < $3
          AND end_date > $2
        ORDER BY start_date`,
		string(technicianID), from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Absence
	for rows.Next() {
		var (
			id string
			a  Absence
		)
		if err := rows.Scan(&id, &a.Start, &a.End, &a.Reason); err != nil {
			return nil, err
		}
		a.ID = types.ID(id)
		a.TechnicianID = technicianID
		result = append(result, a)
	}
	return result, rows.Err()
}

// nonNilStrings keeps pgx from encoding a nil slice as NULL.
func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
