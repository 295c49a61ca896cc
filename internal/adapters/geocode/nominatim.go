package geocode

import (
	"context"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/platform/obs"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	DefaultBaseURL   = "https://nominatim.openstreetmap.org"
	DefaultUserAgent = "delivery-estimate-service/1.0"
)

type reverseResponse struct {
	DisplayName string            `json:"display_name"`
	Error       string            `json:"error"`
	Address     map[string]string `json:"address"`
}

// NominatimGeocoder resolves coordinates through the OpenStreetMap Nominatim /reverse endpoint.
type NominatimGeocoder struct {
	baseURL     string
	userAgent   string
	session     *http.Client
	backoff     time.Duration
	maxAttempts int
}

type Option func(*NominatimGeocoder)

func WithUserAgent(ua string) Option {
	return func(n *NominatimGeocoder) {
		if strings.TrimSpace(ua) != "" {
			n.userAgent = ua
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(n *NominatimGeocoder) {
		if c != nil {
			n.session = c
		}
	}
}

// WithRetry sets the attempt budget and the first backoff delay.
func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(n *NominatimGeocoder) {
		if maxAttempts > 0 {
			n.maxAttempts = maxAttempts
		}
		if backoff > 0 {
			n.backoff = backoff
		}
	}
}

func NewNominatimGeocoder(baseURL string, opts ...Option) *NominatimGeocoder {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	n := &NominatimGeocoder{
		baseURL:     baseURL,
		userAgent:   DefaultUserAgent,
		session:     &http.Client{Timeout: 10 * time.Second},
		backoff:     200 * time.Millisecond,
		maxAttempts: 4,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *NominatimGeocoder) Reverse(ctx context.Context, c domain.Coordinate) (_ domain.GeocodeResult, err error) {
	defer obs.Time(ctx, "nominatim.Reverse")(&err)

	if err := c.Validate(); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("reverse geocode: %w", err)
	}

	endpoint := n.baseURL + "/reverse"

	resp, err := n.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := n.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("format", "json")
		q.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
		q.Set("lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
		q.Set("zoom", "18")
		q.Set("addressdetails", "1")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("reverse geocode: execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("reverse geocode: decode response: %w", err)
	}

	if decoded.Error != "" {
		return domain.GeocodeResult{}, fmt.Errorf("reverse geocode %s: %s: %w", c.Key(), decoded.Error, domain.ErrNotFound)
	}
	if decoded.DisplayName == "" && len(decoded.Address) == 0 {
		return domain.GeocodeResult{}, fmt.Errorf("reverse geocode %s: empty result: %w", c.Key(), domain.ErrNotFound)
	}

	return toResult(decoded), nil
}

func firstOf(m map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(m[k]); v != "" {
			return v
		}
	}
	return ""
}

func toResult(r reverseResponse) domain.GeocodeResult {
	return domain.GeocodeResult{
		City:        firstOf(r.Address, "city", "town", "village", "suburb", "county"),
		State:       firstOf(r.Address, "state", "region"),
		Pincode:     firstOf(r.Address, "postcode"),
		FullAddress: strings.TrimSpace(r.DisplayName),
		Landmark:    firstOf(r.Address, "attraction", "building", "shop", "amenity"),
	}
}

// IsNotFound reports whether the upstream had no address for the coordinate.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
