package repositories

import (
	"context"
	"database/sql"
	"delivery-estimate-service/internal/domain"
	"delivery-estimate-service/internal/platform/obs"
	"errors"
	"fmt"
	"strings"
)

type PostgresAddressRepository struct{ DB *sql.DB }

func NewPostgresAddressRepository(db *sql.DB) *PostgresAddressRepository {
	return &PostgresAddressRepository{DB: db}
}

func (p *PostgresAddressRepository) ListAddresses(ctx context.Context, userID string) (_ []domain.Address, err error) {
	defer obs.Time(ctx, "addresses.ListAddresses")(&err)

	if p.DB == nil {
		return nil, errors.New("postgres address repository: DB is nil")
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, domain.NewValidationError("user_id", "is required")
	}

	query := `
	SELECT
		id,
		user_id,
		label,
		full_address,
		latitude,
		longitude,
		is_default
	FROM addresses
	WHERE user_id = $1
	ORDER BY created_at, id;
	`
	rows, err := p.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses user_id=%s: query addresses table: %w", userID, err)
	}
	defer rows.Close()

	var addresses []domain.Address
	for rows.Next() {
		var a domain.Address
		err := rows.Scan(&a.ID, &a.UserID, &a.Label, &a.FullAddress, &a.Location.Lat, &a.Location.Lon, &a.IsDefault)
		if err != nil {
			return nil, fmt.Errorf("list addresses: scan row: %w", err)
		}
		addresses = append(addresses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list addresses: row iteration: %w", err)
	}

	return addresses, nil
}
