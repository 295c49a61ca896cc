package services

import (
	"delivery-estimate-service/internal/domain"
	"fmt"
	"math"
)

// Estimator composes distance, duration and fee into an EstimateResult.
//
// It is the validating boundary around the pure functions in this package:
// coordinates and subtotals are checked before any arithmetic so that NaN never
// leaks into a price. An Estimator holds no mutable state and is safe for
// concurrent use.
type Estimator struct {
	Fee FeePolicy
}

// NewEstimator returns an Estimator using fee, or the distance-tiered policy when fee is nil.
func NewEstimator(fee FeePolicy) *Estimator {
	if fee == nil {
		fee = NewDistanceTieredFee()
	}
	return &Estimator{Fee: fee}
}

// Estimate prices delivery to customer from the nearest of facilities.
//
// An empty facility list is not an error: the result carries no facility and
// zero values so the caller can choose a fallback.
func (e *Estimator) Estimate(
	customer domain.Coordinate,
	facilities []domain.Facility,
	subtotal float64,
) (domain.EstimateResult, error) {
	if err := customer.Validate(); err != nil {
		return domain.EstimateResult{}, fmt.Errorf("estimate: customer: %w", err)
	}

	if err := validateSubtotal(subtotal); err != nil {
		return domain.EstimateResult{}, fmt.Errorf("estimate: %w", err)
	}

	for _, f := range facilities {
		if err := f.Location.Validate(); err != nil {
			return domain.EstimateResult{}, fmt.Errorf("estimate: facility %q: %w", f.ID, err)
		}
	}

	nearest := FindNearestFacility(customer, facilities)
	if nearest == nil {
		return domain.EstimateResult{FeePolicy: e.Fee.Name()}, nil
	}

	return e.result(nearest.Facility, nearest.DistanceKm, subtotal), nil
}

// EstimateFrom prices delivery to customer from one fixed facility (a single warehouse).
func (e *Estimator) EstimateFrom(
	customer domain.Coordinate,
	facility domain.Facility,
	subtotal float64,
) (domain.EstimateResult, error) {
	if err := customer.Validate(); err != nil {
		return domain.EstimateResult{}, fmt.Errorf("estimate from facility: customer: %w", err)
	}

	if err := facility.Location.Validate(); err != nil {
		return domain.EstimateResult{}, fmt.Errorf("estimate from facility %q: %w", facility.ID, err)
	}

	if err := validateSubtotal(subtotal); err != nil {
		return domain.EstimateResult{}, fmt.Errorf("estimate from facility: %w", err)
	}

	d := CalculateDistance(customer, facility.Location)
	return e.result(facility, d, subtotal), nil
}

func (e *Estimator) result(facility domain.Facility, distanceKm float64, subtotal float64) domain.EstimateResult {
	f := facility
	return domain.EstimateResult{
		DistanceKm:      distanceKm,
		DurationMinutes: CalculateDeliveryDuration(distanceKm),
		FeeAmount:       e.Fee.Fee(distanceKm, subtotal),
		FeePolicy:       e.Fee.Name(),
		NearestFacility: &f,
	}
}

func validateSubtotal(subtotal float64) error {
	if math.IsNaN(subtotal) || math.IsInf(subtotal, 0) {
		return domain.NewValidationError("subtotal", "must be a finite number")
	}
	if subtotal < 0 {
		return domain.NewValidationError("subtotal", "must not be negative")
	}
	return nil
}
