package domain

// A fulfillment point (store or warehouse) at a fixed location.
// Facilities are reference data supplied by a directory; the estimator never mutates them.
type Facility struct {
	ID       string
	Name     string
	Address  string
	Location Coordinate
	IsActive bool
}

// The facility closest to a customer together with the distance and
// delivery duration measured from it.
type NearestFacility struct {
	Facility        Facility
	DistanceKm      float64
	DurationMinutes int
}
