package directory

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"market-directory/internal/db"
)

type seedFile struct {
	Companies []Company  `yaml:"companies"`
	Locations []Location `yaml:"locations"`
}

type SeedResult struct {
	Companies int64
	Locations int64
}

// SeedFromFile loads companies and locations from a YAML file. Rows whose id
// already exists are left alone, so running it again is a no-op.
func (r *Repository) SeedFromFile(ctx context.Context, path string) (SeedResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return SeedResult{}, fmt.Errorf("read seed file: %w", err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return SeedResult{}, fmt.Errorf("parse seed file: %w", err)
	}

	return r.Seed(ctx, sf.Companies, sf.Locations)
}

func (r *Repository) Seed(ctx context.Context, companies []Company, locations []Location) (SeedResult, error) {
	for _, c := range companies {
		if c.ID <= 0 {
			return SeedResult{}, fmt.Errorf("seed company without a positive company_id")
		}
	}
	for _, l := range locations {
		if l.ID <= 0 {
			return SeedResult{}, fmt.Errorf("seed location without a positive location_id")
		}
	}

	var result SeedResult
	err := db.WithTx(ctx, r.db, func(ctx context.Context, tx db.DBTX) error {
		for _, c := range companies {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO companies (company_id, name, address, latitude, longitude)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (company_id) DO NOTHING
			`, c.ID, c.Name, c.Address, c.Latitude, c.Longitude)
			if err != nil {
				return fmt.Errorf("insert company %d: %w", c.ID, err)
			}
			n, _ := res.RowsAffected()
			result.Companies += n
		}

		for _, l := range locations {
			res, err := tx.ExecContext(ctx, `
				INSERT INTO locations (location_id, company_id, name, address, latitude, longitude)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (location_id) DO NOTHING
			`, l.ID, l.CompanyID, l.Name, l.Address, l.Latitude, l.Longitude)
			if err != nil {
				return fmt.Errorf("insert location %d: %w", l.ID, err)
			}
			n, _ := res.RowsAffected()
			result.Locations += n
		}

		// Explicit ids bypass the serial sequences.
		for _, seq := range []struct{ table, column string }{
			{"companies", "company_id"},
			{"locations", "location_id"},
		} {
			_, err := tx.ExecContext(ctx, fmt.Sprintf(
				`SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE(MAX(%s), 0) + 1, false) FROM %s`,
				seq.table, seq.column, seq.column, seq.table,
			))
			if err != nil {
				return fmt.Errorf("advance %s sequence: %w", seq.table, err)
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	return result, nil
}
