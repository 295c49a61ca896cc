package repositories

import (
	"context"
	"database/sql"
	"delivery-estimate-service/internal/domain"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
)

type FacilitySeed struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Address  string  `json:"address"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	IsActive *bool   `json:"is_active"`
}

type AddressSeed struct {
	ID          string  `json:"id"`
	UserID      string  `json:"user_id"`
	Label       string  `json:"label"`
	FullAddress string  `json:"full_address"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	IsDefault   bool    `json:"is_default"`
}

type SeedFile struct {
	Facilities []FacilitySeed `json:"facilities"`
	Addresses  []AddressSeed  `json:"addresses"`
}

// Seed is validated reference data ready to be written or served from memory.
type Seed struct {
	Facilities []domain.Facility
	Addresses  []domain.Address
}

// LoadSeed reads and validates a seed file. Facilities default to active.
func LoadSeed(jsonPath string) (Seed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return Seed{}, fmt.Errorf("load seed: read %q: %w", jsonPath, err)
	}
	return ParseSeed(bytes)
}

func ParseSeed(data []byte) (Seed, error) {
	var file SeedFile
	if err := json.Unmarshal(data, &file); err != nil {
		return Seed{}, fmt.Errorf("parse seed: parse json: %w", err)
	}

	out := Seed{
		Facilities: make([]domain.Facility, 0, len(file.Facilities)),
		Addresses:  make([]domain.Address, 0, len(file.Addresses)),
	}

	seen := make(map[string]struct{}, len(file.Facilities))
	for i, item := range file.Facilities {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return Seed{}, fmt.Errorf("parse seed: facility at index %d: id cannot be empty", i+1)
		}
		if _, dup := seen[id]; dup {
			return Seed{}, fmt.Errorf("parse seed: facility at index %d: duplicate id %q", i+1, id)
		}
		seen[id] = struct{}{}

		loc := domain.Coordinate{Lat: item.Lat, Lon: item.Lon}
		if err := loc.Validate(); err != nil {
			return Seed{}, fmt.Errorf("parse seed: facility id=%s: %w", id, err)
		}

		active := true
		if item.IsActive != nil {
			active = *item.IsActive
		}

		out.Facilities = append(out.Facilities, domain.Facility{
			ID:       id,
			Name:     strings.TrimSpace(item.Name),
			Address:  strings.TrimSpace(item.Address),
			Location: loc,
			IsActive: active,
		})
	}

	for i, item := range file.Addresses {
		id := strings.TrimSpace(item.ID)
		userID := strings.TrimSpace(item.UserID)
		if id == "" || userID == "" {
			return Seed{}, fmt.Errorf("parse seed: address at index %d: id and user_id are required", i+1)
		}

		loc := domain.Coordinate{Lat: item.Lat, Lon: item.Lon}
		if err := loc.Validate(); err != nil {
			return Seed{}, fmt.Errorf("parse seed: address id=%s: %w", id, err)
		}

		out.Addresses = append(out.Addresses, domain.Address{
			ID:          id,
			UserID:      userID,
			Label:       strings.TrimSpace(item.Label),
			FullAddress: strings.TrimSpace(item.FullAddress),
			Location:    loc,
			IsDefault:   item.IsDefault,
		})
	}

	return out, nil
}

// SeedFromJSON upserts the facilities and addresses in jsonPath in a single transaction.
func SeedFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	seed, err := LoadSeed(jsonPath)
	if err != nil {
		return fmt.Errorf("seed from json: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed from json: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	facilityStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO facilities (id, name, address, latitude, longitude, is_active)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name,
		address = EXCLUDED.address,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		is_active = EXCLUDED.is_active;
	`)
	if err != nil {
		return fmt.Errorf("seed from json: prepare facility insert: %w", err)
	}
	defer facilityStmt.Close()

	for _, f := range seed.Facilities {
		_, err := facilityStmt.ExecContext(ctx, f.ID, f.Name, f.Address, f.Location.Lat, f.Location.Lon, f.IsActive)
		if err != nil {
			return fmt.Errorf("seed from json: insert facility id=%s: %w", f.ID, err)
		}
	}

	addressStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO addresses (id, user_id, label, full_address, latitude, longitude, is_default)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (id) DO UPDATE
	SET user_id = EXCLUDED.user_id,
		label = EXCLUDED.label,
		full_address = EXCLUDED.full_address,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		is_default = EXCLUDED.is_default;
	`)
	if err != nil {
		return fmt.Errorf("seed from json: prepare address insert: %w", err)
	}
	defer addressStmt.Close()

	for _, a := range seed.Addresses {
		_, err := addressStmt.ExecContext(ctx, a.ID, a.UserID, a.Label, a.FullAddress, a.Location.Lat, a.Location.Lon, a.IsDefault)
		if err != nil {
			return fmt.Errorf("seed from json: insert address id=%s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed from json: commit tx: %w", err)
	}

	return nil
}
