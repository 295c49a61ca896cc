package domain

import (
	"fmt"
	"math"
)

// Immutable geographic coordinates in decimal degrees.
type Coordinate struct {
	Lat float64
	Lon float64
}

// Validate rejects non-finite values and coordinates outside
// [-90,90] latitude / [-180,180] longitude.
func (c Coordinate) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) {
		return NewValidationError("lat", "must be a finite number")
	}
	if math.IsNaN(c.Lon) || math.IsInf(c.Lon, 0) {
		return NewValidationError("lon", "must be a finite number")
	}
	if c.Lat < -90 || c.Lat > 90 {
		return NewValidationError("lat", "must be between -90 and 90")
	}
	if c.Lon < -180 || c.Lon > 180 {
		return NewValidationError("lon", "must be between -180 and 180")
	}

	return nil
}

// Key returns a cache key with both axes rounded to 5 decimals (about 1 m).
func (c Coordinate) Key() string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lon)
}
