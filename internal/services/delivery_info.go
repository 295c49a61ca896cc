package services

import (
	"delivery-estimate-service/internal/domain"
	"fmt"
)

// SelectDeliveryAddress picks the address a delivery estimate should be shown for.
//
// With a known device location the closest saved address wins (first on ties).
// Without one, the default address is used, falling back to the first saved address.
// Returns nil when the user has no addresses.
func SelectDeliveryAddress(current *domain.Coordinate, addresses []domain.Address) *domain.Address {
	if len(addresses) == 0 {
		return nil
	}

	if current != nil {
		closest := 0
		shortest := CalculateDistance(*current, addresses[0].Location)
		for i := 1; i < len(addresses); i++ {
			d := CalculateDistance(*current, addresses[i].Location)
			if d < shortest {
				shortest = d
				closest = i
			}
		}
		a := addresses[closest]
		return &a
	}

	for _, a := range addresses {
		if a.IsDefault {
			return &a
		}
	}

	a := addresses[0]
	return &a
}

// DeliveryInfo selects an address and estimates delivery to it from warehouse.
// Returns nil without error when there is no address to deliver to.
func (e *Estimator) DeliveryInfo(
	current *domain.Coordinate,
	addresses []domain.Address,
	warehouse domain.Facility,
	subtotal float64,
) (*domain.DeliveryInfo, error) {
	if current != nil {
		if err := current.Validate(); err != nil {
			return nil, fmt.Errorf("delivery info: current location: %w", err)
		}
	}

	addr := SelectDeliveryAddress(current, addresses)
	if addr == nil {
		return nil, nil
	}

	est, err := e.EstimateFrom(addr.Location, warehouse, subtotal)
	if err != nil {
		return nil, fmt.Errorf("delivery info: address %q: %w", addr.ID, err)
	}

	return &domain.DeliveryInfo{
		Address:      *addr,
		FacilityName: warehouse.Name,
		Estimate:     est,
		Distance:     FormatDistance(est.DistanceKm),
		Duration:     FormatDeliveryDuration(est.DurationMinutes),
	}, nil
}
