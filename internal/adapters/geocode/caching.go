package geocode

import (
	"context"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/ports"
	"fmt"
	"log"
)

// CachingGeocoder consults Cache before Upstream and stores fresh results.
// Cache failures are logged and never fail the lookup.
type CachingGeocoder struct {
	Upstream ports.ReverseGeocoder
	Cache    ports.GeocodeCache
}

func NewCachingGeocoder(upstream ports.ReverseGeocoder, cache ports.GeocodeCache) *CachingGeocoder {
	return &CachingGeocoder{Upstream: upstream, Cache: cache}
}

func (g *CachingGeocoder) Reverse(ctx context.Context, c domain.Coordinate) (domain.GeocodeResult, error) {
	if err := c.Validate(); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("reverse geocode: %w", err)
	}

	key := c.Key()

	if g.Cache != nil {
		cached, ok, err := g.Cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Printf("geocode cache read failed: key=%s err=%v", key, err)
		case ok:
			return cached, nil
		}
	}

	res, err := g.Upstream.Reverse(ctx, c)
	if err != nil {
		return domain.GeocodeResult{}, err
	}

	if g.Cache != nil {
		if err := g.Cache.Put(ctx, key, res); err != nil {
			log.Printf("geocode cache write failed: key=%s err=%v", key, err)
		}
	}

	return res, nil
}
