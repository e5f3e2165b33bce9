// README: Driving travel times from the Google Distance Matrix API.
package maps

import (
	"context"
	"errors"
	"fmt"
	"math"

	"googlemaps.github.io/maps"
)

// MaxOrigins is the Distance Matrix limit on origins per request.
const MaxOrigins = 25

// elementOK is the per-element status for a resolved route.
const elementOK = "OK"

var ErrTooManyOrigins = errors.New("too many origins for one distance matrix request")

// Estimate is the driving time for one origin. Found is false when the
// provider could not route that origin (NOT_FOUND, ZERO_RESULTS, ...).
type Estimate struct {
	Minutes int
	Found   bool
}

type distanceMatrixClient interface {
	DistanceMatrix(ctx context.Context, r *maps.DistanceMatrixRequest) (*maps.DistanceMatrixResponse, error)
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client   distanceMatrixClient
	language string
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey, language string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client, language: language}, nil
}

// DrivingMinutes returns one estimate per origin, in order, for driving to destination.
func (s *RouteService) DrivingMinutes(ctx context.Context, origins []string, destination string) ([]Estimate, error) {
	if len(origins) == 0 {
		return nil, nil
	}
	if len(origins) > MaxOrigins {
		return nil, fmt.Errorf("%w: %d", ErrTooManyOrigins, len(origins))
	}

	r := &maps.DistanceMatrixRequest{
		Origins:      origins,
		Destinations: []string{destination},
		Mode:         maps.TravelModeDriving,
		Language:     s.language,
	}
	resp, err := s.client.DistanceMatrix(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(resp.Rows) != len(origins) {
		return nil, fmt.Errorf("maps api returned %d rows for %d origins", len(resp.Rows), len(origins))
	}

	out := make([]Estimate, len(origins))
	for i, row := range resp.Rows {
		if len(row.Elements) == 0 || row.Elements[0] == nil {
			continue
		}
		el := row.Elements[0]
		if el.Status != elementOK {
			continue
		}
		out[i] = Estimate{Minutes: roundMinutes(el.Duration.Minutes()), Found: true}
	}
	return out, nil
}

// roundMinutes rounds to the nearest whole minute, never below one.
func roundMinutes(m float64) int {
	n := int(math.Round(m))
	if n < 1 {
		return 1
	}
	return n
}
