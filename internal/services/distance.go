package services

import (
	"delivery-estimate-service/internal/domain"
	"math"
	"slices"

	"github.com/samber/lo"
	"github.com/umahmood/haversine"
)

const (
	// Fixed order preparation time before the rider leaves.
	BaseMinutes  = 15
	MinutesPerKm = 10
)

// CalculateDistance returns the great-circle distance in kilometers between two
// coordinates given in degrees, using the Haversine formula with R = 6371 km.
//
// Inputs are not validated here. Out-of-range or NaN coordinates produce
// meaningless results; boundaries that accept external input call
// Coordinate.Validate first (see Estimator).
func CalculateDistance(a, b domain.Coordinate) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: a.Lat, Lon: a.Lon},
		haversine.Coord{Lat: b.Lat, Lon: b.Lon},
	)
	return km
}

// CalculateDeliveryDuration estimates delivery time in whole minutes:
// preparation time plus a linear travel component, rounded to the nearest minute.
func CalculateDeliveryDuration(distanceKm float64) int {
	return int(math.Round(BaseMinutes + distanceKm*MinutesPerKm))
}

// FindNearestFacility returns the facility closest to customer, or nil when
// facilities is empty.
//
// The scan keeps the first strictly smaller distance, so ties resolve to the
// earliest facility in input order. Inactive facilities are not filtered out;
// callers pass ActiveFacilities(...) when that matters.
func FindNearestFacility(customer domain.Coordinate, facilities []domain.Facility) *domain.NearestFacility {
	if len(facilities) == 0 {
		return nil
	}

	nearestIdx := 0
	minDistance := CalculateDistance(customer, facilities[0].Location)

	for i := 1; i < len(facilities); i++ {
		d := CalculateDistance(customer, facilities[i].Location)
		if d < minDistance {
			minDistance = d
			nearestIdx = i
		}
	}

	return &domain.NearestFacility{
		Facility:        facilities[nearestIdx],
		DistanceKm:      minDistance,
		DurationMinutes: CalculateDeliveryDuration(minDistance),
	}
}

// RankFacilities orders facilities by distance from customer, nearest first.
// The sort is stable so equidistant facilities keep their input order.
func RankFacilities(customer domain.Coordinate, facilities []domain.Facility) []domain.NearestFacility {
	ranked := make([]domain.NearestFacility, 0, len(facilities))
	for _, f := range facilities {
		d := CalculateDistance(customer, f.Location)
		ranked = append(ranked, domain.NearestFacility{
			Facility:        f,
			DistanceKm:      d,
			DurationMinutes: CalculateDeliveryDuration(d),
		})
	}

	slices.SortStableFunc(ranked, func(a, b domain.NearestFacility) int {
		if a.DistanceKm < b.DistanceKm {
			return -1
		}
		if a.DistanceKm > b.DistanceKm {
			return 1
		}
		return 0
	})

	return ranked
}

// ActiveFacilities returns the facilities flagged active, preserving order.
func ActiveFacilities(facilities []domain.Facility) []domain.Facility {
	return lo.Filter(facilities, func(f domain.Facility, _ int) bool {
		return f.IsActive
	})
}

// FacilitiesByID keeps the facilities whose ID is listed, preserving directory order.
// An empty id list keeps everything.
func FacilitiesByID(facilities []domain.Facility, ids []string) []domain.Facility {
	if len(ids) == 0 {
		return facilities
	}

	wanted := lo.Uniq(ids)
	return lo.Filter(facilities, func(f domain.Facility, _ int) bool {
		return lo.Contains(wanted, f.ID)
	})
}
