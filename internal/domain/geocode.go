package domain

// Human-readable address resolved from a coordinate.
type GeocodeResult struct {
	City        string
	State       string
	Pincode     string
	FullAddress string
	Landmark    string
}
