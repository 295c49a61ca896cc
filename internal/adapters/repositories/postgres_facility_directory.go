package repositories

import (
	"context"
	"database/sql"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/platform/obs"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the FacilityDirectory port.
type PostgresFacilityDirectory struct{ DB *sql.DB }

func NewPostgresFacilityDirectory(db *sql.DB) *PostgresFacilityDirectory {
	return &PostgresFacilityDirectory{DB: db}
}

// Return all facilities ordered by creation time, then id.
func (p *PostgresFacilityDirectory) ListFacilities(ctx context.Context) (_ []domain.Facility, err error) {
	defer obs.Time(ctx, "facilities.ListFacilities")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres facility directory: DB is nil")
	}

	query := `
	SELECT
		id,
		name,
		address,
		latitude,
		longitude,
		is_active
	FROM facilities
	ORDER BY created_at, id;
	`
	rows, err := p.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list facilities: query facilities table: %w", err)
	}
	defer rows.Close()

	facilities := make([]domain.Facility, 0, 16)
	for rows.Next() {
		var f domain.Facility
		if err := rows.Scan(&f.ID, &f.Name, &f.Address, &f.Location.Lat, &f.Location.Lon, &f.IsActive); err != nil {
			return nil, fmt.Errorf("list facilities: scan row: %w", err)
		}
		facilities = append(facilities, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list facilities: row iteration: %w", err)
	}

	return facilities, nil
}
