package cache

import (
	"context"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/platform/obs"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const DefaultGeocodeTTL = 24 * time.Hour

type geocodeEntry struct {
	City        string `json:"city"`
	State       string `json:"state"`
	Pincode     string `json:"pincode"`
	FullAddress string `json:"full_address"`
	Landmark    string `json:"landmark"`
}

// RedisGeocodeCache stores reverse-geocode results as JSON values with a TTL.
type RedisGeocodeCache struct {
	Client *redis.Client
	Prefix string
	TTL    time.Duration
}

func NewRedisGeocodeCache(client *redis.Client) *RedisGeocodeCache {
	return &RedisGeocodeCache{Client: client, Prefix: "geocode:", TTL: DefaultGeocodeTTL}
}

func (c *RedisGeocodeCache) Get(ctx context.Context, key string) (_ domain.GeocodeResult, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.redis.Get")(&err)

	if c.Client == nil {
		return domain.GeocodeResult{}, false, errors.New("geocode cache: redis client is nil")
	}

	raw, err := c.Client.Get(ctx, c.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.GeocodeResult{}, false, nil
	}
	if err != nil {
		return domain.GeocodeResult{}, false, fmt.Errorf("get geocode cache key=%q: %w", key, err)
	}

	var e geocodeEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return domain.GeocodeResult{}, false, fmt.Errorf("get geocode cache key=%q: decode: %w", key, err)
	}

	return domain.GeocodeResult{
		City:        e.City,
		State:       e.State,
		Pincode:     e.Pincode,
		FullAddress: e.FullAddress,
		Landmark:    e.Landmark,
	}, true, nil
}

func (c *RedisGeocodeCache) Put(ctx context.Context, key string, r domain.GeocodeResult) error {
	if c.Client == nil {
		return errors.New("geocode cache: redis client is nil")
	}

	raw, err := json.Marshal(geocodeEntry{
		City:        r.City,
		State:       r.State,
		Pincode:     r.Pincode,
		FullAddress: r.FullAddress,
		Landmark:    r.Landmark,
	})
	if err != nil {
		return fmt.Errorf("put geocode cache key=%q: encode: %w", key, err)
	}

	if err := c.Client.Set(ctx, c.Prefix+key, raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("put geocode cache key=%q: %w", key, err)
	}

	return nil
}
