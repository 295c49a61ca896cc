package handlers

import (
	"delivery-estimate-service/internal/api/dto"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/ports"
	"errors"
	"log"
	"net/http"
)

type GeocodeHandler struct {
	Geocoder ports.ReverseGeocoder
}

func (h *GeocodeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}

	c, err := coordinateFromQuery(r)
	if err != nil {
		writeServiceError(w, r, "reverse geocode", err)
		return
	}

	res, err := h.Geocoder.Reverse(r.Context(), c)
	if err != nil {
		if domain.IsValidation(err) || errors.Is(err, domain.ErrNotFound) {
			writeServiceError(w, r, "reverse geocode", err)
			return
		}
		log.Printf("reverse geocode failed: key=%s err=%v", c.Key(), err)
		writeError(w, r, http.StatusBadGateway, "geocoding service unavailable")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GeocodeResponse{
		City:        res.City,
		State:       res.State,
		Pincode:     res.Pincode,
		FullAddress: res.FullAddress,
		Landmark:    res.Landmark,
	})
}
