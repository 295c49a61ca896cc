package handlers

import (
	"delivery-estimate-service/internal/api/dto"
	"delivery-estimate-service/internal/ports"
	"delivery-estimate-service/internal/services"
	"net/http"
)

type EstimateHandler struct {
	Facilities ports.FacilityDirectory
	Estimator  *services.Estimator
}

// Estimate prices delivery to a customer from the nearest active facility,
// optionally restricted to the requested facility ids.
func (h *EstimateHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.EstimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := toCoordinate("customer", req.Customer)
	if err != nil {
		writeServiceError(w, r, "estimate", err)
		return
	}

	all, err := h.Facilities.ListFacilities(r.Context())
	if err != nil {
		writeServiceError(w, r, "list facilities", err)
		return
	}

	candidates := services.ActiveFacilities(all)
	if len(req.FacilityIDs) > 0 {
		candidates = services.FacilitiesByID(candidates, req.FacilityIDs)
	}

	est, err := h.Estimator.Estimate(customer, candidates, req.Subtotal)
	if err != nil {
		writeServiceError(w, r, "estimate", err)
		return
	}
	if est.NearestFacility == nil {
		writeError(w, r, http.StatusNotFound, "no active facility available")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.NewEstimateResponse(est))
}
