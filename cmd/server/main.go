package main

import (
	"context"
	"database/sql"
	"delivery-estimate-service/internal/adapters/cache"
	"delivery-estimate-service/internal/adapters/geocode"
	"delivery-estimate-service/internal/adapters/memory"
	"delivery-estimate-service/internal/adapters/repositories"
	"delivery-estimate-service/internal/api"
	"delivery-estimate-service/internal/config"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/geoindex"
	"delivery-estimate-service/internal/platform/db"
	"delivery-estimate-service/internal/platform/kv"
	"delivery-estimate-service/internal/ports"
	"delivery-estimate-service/internal/services"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"
)

// main is the application composition root.
// It wires concrete adapters (Postgres or seed file, Redis, Nominatim) behind ports and starts the HTTP server.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	fee, ok := services.FeePolicyByName(cfg.FeePolicy)
	if !ok {
		log.Fatalf("unknown FEE_POLICY %q (want distance or subtotal)", cfg.FeePolicy)
	}
	estimator := services.NewEstimator(fee)

	warehouse := domain.Facility{
		ID:       "warehouse",
		Name:     cfg.Warehouse.Name,
		Address:  cfg.Warehouse.Address,
		Location: domain.Coordinate{Lat: cfg.Warehouse.Lat, Lon: cfg.Warehouse.Lon},
		IsActive: true,
	}
	if err := warehouse.Location.Validate(); err != nil {
		log.Fatalf("invalid warehouse location: %v", err)
	}

	var (
		facilities   ports.FacilityDirectory
		addresses    ports.AddressRepository
		geocodeCache ports.GeocodeCache
	)

	if cfg.DatabaseURL != "" {
		conn, err := openPostgres(ctx, cfg)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		facilities = repositories.NewPostgresFacilityDirectory(conn)
		addresses = repositories.NewPostgresAddressRepository(conn)
		geocodeCache = cache.NewSQLGeocodeCache(conn)
	} else {
		// Local runs without Postgres serve the seed file from memory.
		log.Printf("DATABASE_URL not set, serving seed file path=%s", cfg.SeedPath)
		seed, err := repositories.LoadSeed(cfg.SeedPath)
		if err != nil {
			log.Fatal(err)
		}
		facilities = memory.NewFacilityDirectory(seed.Facilities)
		addresses = memory.NewAddressRepository(seed.Addresses)
		geocodeCache = memory.NewGeocodeCache()
	}

	// Redis, when configured, takes over geocode caching so entries expire.
	if cfg.RedisURL != "" {
		client, err := kv.Open(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer client.Close()
		geocodeCache = cache.NewRedisGeocodeCache(client)
	}

	geocoder := geocode.NewCachingGeocoder(geocode.NewNominatimGeocoder(cfg.NominatimURL), geocodeCache)

	index := geoindex.NewFacilityIndex()
	if err := refreshIndex(ctx, index, facilities); err != nil {
		log.Fatal(err)
	}
	go keepIndexFresh(ctx, index, facilities, cfg.IndexRefresh)

	router := api.NewRouter(api.Deps{
		Facilities: facilities,
		Addresses:  addresses,
		Geocoder:   geocoder,
		Index:      index,
		Estimator:  estimator,
		Warehouse:  warehouse,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Reverse geocoding may retry upstream with backoff.
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}()

	log.Printf("Server listening addr=:%s fee_policy=%s facilities=%d", cfg.Port, fee.Name(), index.Size())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
	log.Println("Server stopped")
}

func openPostgres(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if cfg.Migrations {
		if err := repositories.Migrate(cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
	}

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return conn, nil
}

// refreshIndex rebuilds the radius index from the active facilities in dir.
func refreshIndex(ctx context.Context, index *geoindex.FacilityIndex, dir ports.FacilityDirectory) error {
	all, err := dir.ListFacilities(ctx)
	if err != nil {
		return fmt.Errorf("refresh index: %w", err)
	}
	if err := index.Replace(services.ActiveFacilities(all)); err != nil {
		return fmt.Errorf("refresh index: %w", err)
	}
	return nil
}

func keepIndexFresh(ctx context.Context, index *geoindex.FacilityIndex, dir ports.FacilityDirectory, every time.Duration) {
	if every <= 0 {
		return
	}

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := refreshIndex(ctx, index, dir); err != nil {
				log.Printf("index refresh failed: %v", err)
				continue
			}
			log.Printf("index refreshed facilities=%d", index.Size())
		}
	}
}
