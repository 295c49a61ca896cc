package api

import (
	"delivery-estimate-service/internal/api/handlers"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/geoindex"
	"delivery-estimate-service/internal/ports"
	"delivery-estimate-service/internal/services"
	"net/http"
)

// Deps are the collaborators the HTTP layer needs. Handlers only see ports.
type Deps struct {
	Facilities ports.FacilityDirectory
	Addresses  ports.AddressRepository
	Geocoder   ports.ReverseGeocoder
	Index      *geoindex.FacilityIndex
	Estimator  *services.Estimator
	Warehouse  domain.Facility
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	estimates := &handlers.EstimateHandler{Facilities: d.Facilities, Estimator: d.Estimator}
	facilities := &handlers.FacilityHandler{Index: d.Index}
	info := &handlers.DeliveryInfoHandler{
		Addresses: d.Addresses,
		Estimator: d.Estimator,
		Warehouse: d.Warehouse,
	}
	geocode := &handlers.GeocodeHandler{Geocoder: d.Geocoder}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/estimates", estimates.Estimate)
	mux.HandleFunc("/facilities/nearby", facilities.Nearby)
	mux.HandleFunc("/delivery-info", info.DeliveryInfo)
	mux.HandleFunc("/geocode/reverse", geocode.Reverse)

	return requestIDMiddleware(loggingMiddleware(mux))
}
