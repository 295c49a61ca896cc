package dto

import (
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/services"
)

func NewCoordinateResponse(c domain.Coordinate) CoordinateResponse {
	return CoordinateResponse{Lat: c.Lat, Lon: c.Lon}
}

func NewFacilityResponse(f domain.Facility) FacilityResponse {
	return FacilityResponse{
		ID:       f.ID,
		Name:     f.Name,
		Address:  f.Address,
		Location: NewCoordinateResponse(f.Location),
		IsActive: f.IsActive,
	}
}

// NewEstimateResponse leaves the display strings empty when no facility was found.
func NewEstimateResponse(est domain.EstimateResult) EstimateResponse {
	res := EstimateResponse{
		DistanceKm:      est.DistanceKm,
		DurationMinutes: est.DurationMinutes,
		FeeAmount:       est.FeeAmount,
		FeePolicy:       est.FeePolicy,
	}
	if est.NearestFacility != nil {
		f := NewFacilityResponse(*est.NearestFacility)
		res.Facility = &f
		res.Distance = services.FormatDistance(est.DistanceKm)
		res.Duration = services.FormatDeliveryDuration(est.DurationMinutes)
	}
	return res
}

func NewListNearbyResponse(radiusKm float64, found []domain.NearestFacility) ListNearbyResponse {
	res := ListNearbyResponse{
		RadiusKm:   radiusKm,
		Facilities: make([]NearbyFacilityResponse, 0, len(found)),
	}
	for _, f := range found {
		res.Facilities = append(res.Facilities, NearbyFacilityResponse{
			Facility:        NewFacilityResponse(f.Facility),
			DistanceKm:      f.DistanceKm,
			Distance:        services.FormatDistance(f.DistanceKm),
			DurationMinutes: f.DurationMinutes,
		})
	}
	return res
}
