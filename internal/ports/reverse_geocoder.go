package ports

import (
	"context"
	"delivery-estimate-service/internal/domain"
)

// Contract for resolving a coordinate into a human-readable address.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, c domain.Coordinate) (domain.GeocodeResult, error)
}

// Persistent store for reverse-geocode results keyed by Coordinate.Key().
type GeocodeCache interface {
	// Return the cached result and whether it was present.
	Get(ctx context.Context, key string) (domain.GeocodeResult, bool, error)
	Put(ctx context.Context, key string, result domain.GeocodeResult) error
}
