package ports

import (
	"context"
	"delivery-estimate-service/internal/domain"
)

// Port: a boundary for retrieving a user's saved delivery addresses.
type AddressRepository interface {
	// Return the user's addresses in creation order. An unknown user has none.
	ListAddresses(ctx context.Context, userID string) ([]domain.Address, error)
}
