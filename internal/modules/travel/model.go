// README: Travel-time lookups per search request (short-circuit, batching, throttling, fallback).
package travel

import (
	"context"

	"github.com/begoneskadedjur/kundportal-sub014/internal/maps"
	"github.com/begoneskadedjur/kundportal-sub014/internal/types"
)

// Provider resolves driving time from several origins to one destination.
type Provider interface {
	DrivingMinutes(ctx context.Context, origins []string, destination string) ([]maps.Estimate, error)
}

// Gate serializes provider batches across processes sharing an API key.
type Gate interface {
	Acquire(ctx context.Context) (release func(), err error)
}

type noopGate struct{}

func (noopGate) Acquire(context.Context) (func(), error) { return func() {}, nil }

// Table holds the minutes from each resolved origin to one destination.
// Unknown origins read as the fallback.
type Table struct {
	destination types.Address
	minutes     map[string]int
	fallback    int
}

// NewTable builds a table from explicit values; used by callers that already know the times.
func NewTable(destination types.Address, fallback int, minutes map[types.Address]int) Table {
	t := Table{destination: destination, fallback: fallback, minutes: make(map[string]int, len(minutes))}
	for a, m := range minutes {
		t.minutes[a.Key()] = m
	}
	return t
}

func (t Table) From(origin types.Address) int {
	if m, ok := t.minutes[origin.Key()]; ok {
		return m
	}
	return t.fallback
}

func (t Table) Len() int { return len(t.minutes) }
