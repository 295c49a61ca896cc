package cache

import (
	"context"
	"database/sql"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
)

// SQLGeocodeCache is a Postgres-backed cache mapping coordinate keys to addresses.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

func (s *SQLGeocodeCache) Get(ctx context.Context, key string) (_ domain.GeocodeResult, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.sql.Get")(&err)

	if s.DB == nil {
		return domain.GeocodeResult{}, false, errors.New("geocode cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return domain.GeocodeResult{}, false, nil
	}

	q := `
	SELECT city, state, pincode, full_address, landmark
	FROM geocode_cache
	WHERE coord_key = $1;
	`

	var r domain.GeocodeResult
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&r.City, &r.State, &r.Pincode, &r.FullAddress, &r.Landmark)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GeocodeResult{}, false, nil
	}
	if err != nil {
		return domain.GeocodeResult{}, false, fmt.Errorf("get geocode cache key=%q: %w", key, err)
	}

	return r, true, nil
}

func (s *SQLGeocodeCache) Put(ctx context.Context, key string, r domain.GeocodeResult) error {
	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("insert geocode cache: empty key")
	}

	q := `
	INSERT INTO geocode_cache (coord_key, city, state, pincode, full_address, landmark, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, now())
	ON CONFLICT (coord_key) DO UPDATE
	SET city = EXCLUDED.city,
		state = EXCLUDED.state,
		pincode = EXCLUDED.pincode,
		full_address = EXCLUDED.full_address,
		landmark = EXCLUDED.landmark,
		updated_at = EXCLUDED.updated_at;
	`
	if _, err := s.DB.ExecContext(ctx, q, key, r.City, r.State, r.Pincode, r.FullAddress, r.Landmark); err != nil {
		return fmt.Errorf("insert geocode cache key=%q: %w", key, err)
	}

	return nil
}
