package handlers

import (
	"delivery-estimate-service/internal/api/dto"
	"delivery-estimate-service/internal/domain"
)

func toCoordinate(field string, c *dto.CoordinateRequest) (domain.Coordinate, error) {
	if c == nil {
		return domain.Coordinate{}, domain.NewValidationError(field, "is required")
	}
	if c.Lat == nil {
		return domain.Coordinate{}, domain.NewValidationError(field+".lat", "is required")
	}
	if c.Lon == nil {
		return domain.Coordinate{}, domain.NewValidationError(field+".lon", "is required")
	}
	return domain.Coordinate{Lat: *c.Lat, Lon: *c.Lon}, nil
}
