package domain

// A customer location submitted for batch estimation, with the order subtotal
// used by subtotal-based fee policies. HasSubtotal tells an explicit 0 apart
// from a missing value.
type Customer struct {
	ID          string
	Name        string
	Location    Coordinate
	Subtotal    float64
	HasSubtotal bool
}
