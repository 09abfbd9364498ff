// Package directory serves the read-only company and location listings.
package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"market-directory/internal/apperr"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) ListCompanies(ctx context.Context) ([]Company, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT company_id, name, address, latitude, longitude
		FROM companies
		ORDER BY company_id
	`)
	if err != nil {
		return nil, fmt.Errorf("query companies: %w", err)
	}
	defer rows.Close()

	companies := make([]Company, 0)
	for rows.Next() {
		var c Company
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.Latitude, &c.Longitude); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		companies = append(companies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate companies: %w", err)
	}

	return companies, nil
}

func (r *Repository) GetCompany(ctx context.Context, id int64) (Company, error) {
	var c Company
	err := r.db.QueryRowContext(ctx, `
		SELECT company_id, name, address, latitude, longitude
		FROM companies
		WHERE company_id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Address, &c.Latitude, &c.Longitude)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Company{}, fmt.Errorf("company %d: %w", id, apperr.ErrNotFound)
		}
		return Company{}, fmt.Errorf("query company: %w", err)
	}

	return c, nil
}

// ListLocations returns the company's locations. No locations at all, whether
// or not the company exists, is reported as not found.
func (r *Repository) ListLocations(ctx context.Context, companyID int64) ([]Location, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT location_id, company_id, name, address, latitude, longitude
		FROM locations
		WHERE company_id = $1
		ORDER BY location_id
	`, companyID)
	if err != nil {
		return nil, fmt.Errorf("query locations: %w", err)
	}
	defer rows.Close()

	locations := make([]Location, 0)
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.CompanyID, &l.Name, &l.Address, &l.Latitude, &l.Longitude); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		locations = append(locations, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate locations: %w", err)
	}
	if len(locations) == 0 {
		return nil, fmt.Errorf("locations for company %d: %w", companyID, apperr.ErrNotFound)
	}

	return locations, nil
}
