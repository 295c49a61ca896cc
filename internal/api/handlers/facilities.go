package handlers

import (
	"delivery-estimate-service/internal/api/dto"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/geoindex"
	"net/http"
)

const (
	defaultRadiusKm = 10.0
	maxRadiusKm     = 500.0
)

type FacilityHandler struct {
	Index *geoindex.FacilityIndex
}

// Nearby lists indexed facilities within radius_km of lat/lon, nearest first.
func (h *FacilityHandler) Nearby(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	center, err := coordinateFromQuery(r)
	if err != nil {
		writeServiceError(w, r, "nearby facilities", err)
		return
	}

	radius, ok, err := parseFloatParam(r, "radius_km")
	if err != nil {
		writeServiceError(w, r, "nearby facilities", err)
		return
	}
	if !ok {
		radius = defaultRadiusKm
	}
	if radius > maxRadiusKm {
		writeServiceError(w, r, "nearby facilities", domain.NewValidationError("radius_km", "must be at most 500"))
		return
	}

	found, err := h.Index.Within(center, radius)
	if err != nil {
		writeServiceError(w, r, "nearby facilities", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewListNearbyResponse(radius, found))
}
