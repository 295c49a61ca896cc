package dto

type FacilityResponse struct {
	ID       string             `json:"id"`
	Name     string             `json:"name"`
	Address  string             `json:"address"`
	Location CoordinateResponse `json:"location"`
	IsActive bool               `json:"is_active"`
}

type NearbyFacilityResponse struct {
	Facility        FacilityResponse `json:"facility"`
	DistanceKm      float64          `json:"distance_km"`
	Distance        string           `json:"distance"`
	DurationMinutes int              `json:"duration_minutes"`
}

type ListNearbyResponse struct {
	RadiusKm   float64                  `json:"radius_km"`
	Facilities []NearbyFacilityResponse `json:"facilities"`
}
