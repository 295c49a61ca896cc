package handlers

import (
	"delivery-estimate-service/internal/api/dto"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/ports"
	"delivery-estimate-service/internal/services"
	"net/http"
	"strings"
)

// DeliveryInfoHandler answers "where will my order go and what will it cost"
// for a user's saved addresses, always measured from the configured warehouse.
type DeliveryInfoHandler struct {
	Addresses ports.AddressRepository
	Estimator *services.Estimator
	Warehouse domain.Facility
}

func (h *DeliveryInfoHandler) DeliveryInfo(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.DeliveryInfoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		writeServiceError(w, r, "delivery info", domain.NewValidationError("user_id", "is required"))
		return
	}

	var current *domain.Coordinate
	if req.CurrentLocation != nil {
		c, err := toCoordinate("current_location", req.CurrentLocation)
		if err != nil {
			writeServiceError(w, r, "delivery info", err)
			return
		}
		current = &c
	}

	addresses, err := h.Addresses.ListAddresses(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, "list addresses", err)
		return
	}

	info, err := h.Estimator.DeliveryInfo(current, addresses, h.Warehouse, req.Subtotal)
	if err != nil {
		writeServiceError(w, r, "delivery info", err)
		return
	}
	if info == nil {
		writeError(w, r, http.StatusNotFound, "no saved addresses")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.DeliveryInfoResponse{
		Address: dto.AddressResponse{
			ID:          info.Address.ID,
			Label:       info.Address.Label,
			FullAddress: info.Address.FullAddress,
			Location:    dto.NewCoordinateResponse(info.Address.Location),
			IsDefault:   info.Address.IsDefault,
		},
		FacilityName: info.FacilityName,
		Distance:     info.Distance,
		Duration:     info.Duration,
		Estimate:     dto.NewEstimateResponse(info.Estimate),
	})
}
