package domain

// Represents the delivery estimate for one customer location.
// DistanceKm and DurationMinutes are measured from NearestFacility, which is nil
// when no facility was available. Results are computed per call and never persisted.
type EstimateResult struct {
	DistanceKm      float64
	DurationMinutes int
	FeeAmount       float64
	FeePolicy       string
	NearestFacility *Facility
}

// Display-ready delivery information for a selected address.
type DeliveryInfo struct {
	Address      Address
	FacilityName string
	Estimate     EstimateResult
	Distance     string
	Duration     string
}
