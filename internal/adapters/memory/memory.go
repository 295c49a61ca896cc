package memory

import (
	"context"
	"delivery-estimate-service/internal/domain"
	"slices"
	"strings"
	"sync"
)

// FacilityDirectory serves a fixed facility list, for tests and the CLI.
type FacilityDirectory struct {
	mu         sync.RWMutex
	facilities []domain.Facility
}

func NewFacilityDirectory(facilities []domain.Facility) *FacilityDirectory {
	return &FacilityDirectory{facilities: slices.Clone(facilities)}
}

func (d *FacilityDirectory) ListFacilities(ctx context.Context) ([]domain.Facility, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.facilities), nil
}

// Replace swaps the served list.
func (d *FacilityDirectory) Replace(facilities []domain.Facility) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.facilities = slices.Clone(facilities)
}

// AddressRepository groups addresses by user, keeping input order.
type AddressRepository struct {
	m map[string][]domain.Address
}

func NewAddressRepository(addresses []domain.Address) *AddressRepository {
	m := make(map[string][]domain.Address)
	for _, a := range addresses {
		m[a.UserID] = append(m[a.UserID], a)
	}
	return &AddressRepository{m: m}
}

func (r *AddressRepository) ListAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}
	return slices.Clone(r.m[userID]), nil
}

// GeocodeCache is a map-backed GeocodeCache.
type GeocodeCache struct {
	mu sync.Mutex
	m  map[string]domain.GeocodeResult
}

func NewGeocodeCache() *GeocodeCache {
	return &GeocodeCache{m: make(map[string]domain.GeocodeResult)}
}

func (c *GeocodeCache) Get(_ context.Context, key string) (domain.GeocodeResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.m[key]
	return r, ok, nil
}

func (c *GeocodeCache) Put(_ context.Context, key string, result domain.GeocodeResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = result
	return nil
}

func (c *GeocodeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}
