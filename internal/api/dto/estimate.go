package dto

type EstimateRequest struct {
	Customer    *CoordinateRequest `json:"customer"`
	Subtotal    float64            `json:"subtotal"`
	FacilityIDs []string           `json:"facility_ids"`
}

type EstimateResponse struct {
	DistanceKm      float64           `json:"distance_km"`
	Distance        string            `json:"distance"`
	DurationMinutes int               `json:"duration_minutes"`
	Duration        string            `json:"duration"`
	FeeAmount       float64           `json:"fee_amount"`
	FeePolicy       string            `json:"fee_policy"`
	Facility        *FacilityResponse `json:"facility"`
}
