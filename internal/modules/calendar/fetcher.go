package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

// Fetcher loads bookings and absences for many technicians concurrently.
type Fetcher struct {
	bookings    BookingReader
	absences    AbsenceReader
	nonBlocking []string
	limit       int
}

func NewFetcher(bookings BookingReader, absences AbsenceReader, nonBlocking []string, concurrency int) *Fetcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Fetcher{bookings: bookings, absences: absences, nonBlocking: nonBlocking, limit: concurrency}
}

// Fetch returns entries keyed by technician. The first store error cancels
// the remaining fetches and is returned.
func (f *Fetcher) Fetch(ctx context.Context, ids []types.ID, from, to time.Time) (map[types.ID]Entries, error) {
	results := make([]Entries, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.limit)
	for i, id := range ids {
		g.Go(func() error {
			bookings, err := f.bookings.ListByTechnician(gctx, id, from, to)
			if err != nil {
				return fmt.Errorf("bookings for %s: %w", id, err)
			}
			absences, err := f.absences.ListByTechnician(gctx, id, from, to)
			if err != nil {
				return fmt.Errorf("absences for %s: %w", id, err)
			}
			kept := bookings[:0]
			for _, b := range bookings {
				if blocks(b, f.nonBlocking) {
					kept = append(kept, b)
				}
			}
			results[i] = Entries{Bookings: kept, Absences: absences}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[types.ID]Entries, len(ids))
	for i, id := range ids {
		out[id] = results[i]
	}
	return out, nil
}
