package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"delivery-estimate-service/internal/adapters/memory"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/geoindex"
	"delivery-estimate-service/internal/services"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	uppal = domain.Facility{
		ID: "wh-uppal", Name: "Uppal Warehouse", IsActive: true,
		Location: domain.Coordinate{Lat: 17.35878, Lon: 78.5534077},
	}
	testFacilities = []domain.Facility{
		uppal,
		{ID: "st-charminar", Name: "Charminar Store", IsActive: true, Location: domain.Coordinate{Lat: 17.3616, Lon: 78.4747}},
		{ID: "st-secunderabad", Name: "Secunderabad Store", IsActive: true, Location: domain.Coordinate{Lat: 17.4399, Lon: 78.4983}},
		{ID: "st-closed", Name: "Closed Store", IsActive: false, Location: domain.Coordinate{Lat: 17.3850, Lon: 78.4867}},
	}
	testAddresses = []domain.Address{
		{ID: "addr-home", UserID: "user-1", Label: "home", IsDefault: true, Location: domain.Coordinate{Lat: 17.365, Lon: 78.56}},
		{ID: "addr-office", UserID: "user-1", Label: "office", Location: domain.Coordinate{Lat: 17.4435, Lon: 78.3772}},
	}
)

type stubGeocoder struct {
	result domain.GeocodeResult
	err    error
}

func (s stubGeocoder) Reverse(context.Context, domain.Coordinate) (domain.GeocodeResult, error) {
	return s.result, s.err
}

func newTestRouter(t *testing.T, geocoder stubGeocoder) http.Handler {
	t.Helper()

	index := geoindex.NewFacilityIndex()
	require.NoError(t, index.Index(services.ActiveFacilities(testFacilities)))

	return NewRouter(Deps{
		Facilities: memory.NewFacilityDirectory(testFacilities),
		Addresses:  memory.NewAddressRepository(testAddresses),
		Geocoder:   geocoder,
		Index:      index,
		Estimator:  services.NewEstimator(nil),
		Warehouse:  uppal,
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, stubGeocoder{})

	rec, body := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get(requestIDHeader))

	rec, _ = do(t, h, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestRouter(t, stubGeocoder{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "client-id-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "client-id-1", rec.Header().Get(requestIDHeader))
}

func TestEstimateNearestActiveFacility(t *testing.T) {
	h := newTestRouter(t, stubGeocoder{})

	rec, body := do(t, h, http.MethodPost, "/estimates", `{"customer": {"lat": 17.385, "lon": 78.4867}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	facility := body["facility"].(map[string]any)
	assert.Equal(t, "st-charminar", facility["id"], "inactive store at the same point is ignored")
	assert.InDelta(t, 2.897, body["distance_km"].(float64), 0.001)
	assert.Equal(t, "2.9 km", body["distance"])
	assert.Equal(t, float64(44), body["duration_minutes"])
	assert.Equal(t, "39-54 mins", body["duration"])
	assert.Equal(t, float64(40), body["fee_amount"])
	assert.Equal(t, services.DistanceTieredPolicy, body["fee_policy"])
}

func TestEstimateRestrictedToFacilityIDs(t *testing.T) {
	h := newTestRouter(t, stubGeocoder{})

	rec, body := do(t, h, http.MethodPost, "/estimates",
		`{"customer": {"lat": 17.385, "lon": 78.4867}, "facility_ids": ["wh-uppal"]}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, "wh-uppal", body["facility"].(map[string]any)["id"])
	assert.Equal(t, "7.7 km", body["distance"])
	assert.Equal(t, "87-102 mins", body["duration"])
	assert.Equal(t, float64(90), body["fee_amount"])

	rec, _ = do(t, h, http.MethodPost, "/estimates",
		`{"customer": {"lat": 17.385, "lon": 78.4867}, "facility_ids": ["st-closed"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEstimateRejectsBadInput(t *testing.T) {
	h := newTestRouter(t, stubGeocoder{})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"customer":`},
		{"unknown field", `{"customer": {"lat": 1, "lon": 1}, "tip": 5}`},
		{"two objects", `{"customer": {"lat": 1, "lon": 1}}{}`},
		{"missing customer", `{}`},
		{"missing lon", `{"customer": {"lat": 17.3}}`},
		{"lat out of range", `{"customer": {"lat": 91, "lon": 78}}`},
		{"lon out of range", `{"customer": {"lat": 17, "lon": -181}}`},
		{"negative subtotal", `{"customer": {"lat": 17, "lon": 78}, "subtotal": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, body := do(t, h, http.MethodPost, "/estimates", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestNearbyFacilities(t *testing.T) {
	h := newTestRouter(t, stubGeocoder{})

	rec, body := do(t, h, http.MethodGet, "/facilities/nearby?lat=17.385&lon=78.4867&radius_km=10", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var ids []string
	for _, f := range body["facilities"].([]any) {
		ids = append(ids, f.(map[string]any)["facility"].(map[string]any)["id"].(string))
	}
	assert.Equal(t, []string{"st-charminar", "st-secunderabad", "wh-uppal"}, ids)

	rec, body = do(t, h, http.MethodGet, "/facilities/nearby?lat=17.385&lon=78.4867&radius_km=3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["facilities"], 1)

	rec, body = do(t, h, http.MethodGet, "/facilities/nearby?lat=17.385&lon=78.4867", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(10), body["radius_km"])
}

func TestNearbyFacilitiesRejectsBadQuery(t *testing.T) {
	h := newTestRouter(t, stubGeocoder{})

	for _, target := range []string{
		"/facilities/nearby?lon=78.4",
		"/facilities/nearby?lat=abc&lon=78.4",
		"/facilities/nearby?lat=17&lon=78&radius_km=-1",
		"/facilities/nearby?lat=17&lon=78&radius_km=501",
		"/facilities/nearby?lat=-91&lon=78",
	} {
		rec, _ := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestDeliveryInfo(t *testing.T) {
	h := newTestRouter(t, stubGeocoder{})

	rec, body := do(t, h, http.MethodPost, "/delivery-info", `{"user_id": "user-1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "addr-home", body["address"].(map[string]any)["id"])
	assert.Equal(t, "Uppal Warehouse", body["facility_name"])
	assert.Equal(t, "984m", body["distance"])
	assert.Equal(t, "20-35 mins", body["duration"])
	assert.Equal(t, float64(20), body["estimate"].(map[string]any)["fee_amount"])

	// A device location next to the office selects the office over the default.
	rec, body = do(t, h, http.MethodPost, "/delivery-info",
		`{"user_id": "user-1", "current_location": {"lat": 17.4434, "lon": 78.3771}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "addr-office", body["address"].(map[string]any)["id"])
	assert.Equal(t, "20.9 km", body["distance"])
	assert.Equal(t, float64(220), body["estimate"].(map[string]any)["fee_amount"])
}

func TestDeliveryInfoErrors(t *testing.T) {
	h := newTestRouter(t, stubGeocoder{})

	rec, _ := do(t, h, http.MethodPost, "/delivery-info", `{"user_id": "nobody"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/delivery-info", `{"user_id": " "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/delivery-info", `{"user_id": "user-1", "current_location": {"lat": 200, "lon": 0}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodGet, "/delivery-info", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReverseGeocode(t *testing.T) {
	h := newTestRouter(t, stubGeocoder{result: domain.GeocodeResult{City: "Hyderabad", State: "Telangana", Pincode: "500001"}})

	rec, body := do(t, h, http.MethodGet, "/geocode/reverse?lat=17.385&lon=78.4867", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hyderabad", body["city"])
	assert.Equal(t, "500001", body["pincode"])
	_, hasLandmark := body["landmark"]
	assert.False(t, hasLandmark)

	rec, _ = do(t, h, http.MethodGet, "/geocode/reverse?lat=17.385", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReverseGeocodeUpstreamErrors(t *testing.T) {
	h := newTestRouter(t, stubGeocoder{err: domain.ErrNotFound})
	rec, _ := do(t, h, http.MethodGet, "/geocode/reverse?lat=0&lon=-140", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	h = newTestRouter(t, stubGeocoder{err: errors.New("connection reset")})
	rec, _ = do(t, h, http.MethodGet, "/geocode/reverse?lat=17&lon=78", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
