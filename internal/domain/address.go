package domain

// A saved customer delivery address.
type Address struct {
	ID          string
	UserID      string
	Label       string
	FullAddress string
	Location    Coordinate
	IsDefault   bool
}
