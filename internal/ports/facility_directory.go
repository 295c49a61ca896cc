package ports

import (
	"context"
	"delivery-estimate-service/internal/domain"
)

// Port: read-only source of fulfillment facilities.
type FacilityDirectory interface {
	// Return every facility, active or not, in a stable order.
	ListFacilities(ctx context.Context) ([]domain.Facility, error)
}
