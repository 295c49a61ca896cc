package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Get returns the environment value for key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config: parse %s=%q: %w", key, raw, err)
	}
	return v, nil
}

// Warehouse is the fixed dispatch point used for saved-address estimates.
type Warehouse struct {
	Name    string
	Address string
	Lat     float64
	Lon     float64
}

type Config struct {
	Port         string
	DatabaseURL  string
	RedisURL     string
	FeePolicy    string
	NominatimURL string
	SeedPath     string
	Migrations   bool
	IndexRefresh time.Duration
	Warehouse    Warehouse
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg := Config{
		Port:         Get("PORT", "8080"),
		DatabaseURL:  Get("DATABASE_URL", ""),
		RedisURL:     Get("REDIS_URL", ""),
		FeePolicy:    Get("FEE_POLICY", "distance"),
		NominatimURL: Get("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		SeedPath:     Get("SEED_PATH", "data/seeds/seed.json"),
		Warehouse: Warehouse{
			Name:    Get("WAREHOUSE_NAME", "Main Warehouse"),
			Address: Get("WAREHOUSE_ADDRESS", "Hyderabad, Telangana"),
		},
	}

	migrations, err := strconv.ParseBool(Get("MIGRATIONS", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("config: parse MIGRATIONS: %w", err)
	}
	cfg.Migrations = migrations

	refresh, err := time.ParseDuration(Get("INDEX_REFRESH", "5m"))
	if err != nil {
		return Config{}, fmt.Errorf("config: parse INDEX_REFRESH: %w", err)
	}
	cfg.IndexRefresh = refresh

	if cfg.Warehouse.Lat, err = getFloat("WAREHOUSE_LAT", 17.35878); err != nil {
		return Config{}, err
	}
	if cfg.Warehouse.Lon, err = getFloat("WAREHOUSE_LON", 78.5534077); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
