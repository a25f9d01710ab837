// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bizdir/internal/apperr"
	"bizdir/internal/models"
)

// LocationStore manages countries, regions and cities.
type LocationStore struct {
	db *sql.DB
}

// NewLocationStore returns a new LocationStore.
func NewLocationStore(db *sql.DB) *LocationStore {
	return &LocationStore{db: db}
}

// ListCountries returns all countries ordered by name.
func (s *LocationStore) ListCountries(ctx context.Context) ([]models.Country, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, slug, code FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	defer rows.Close()

	items := []models.Country{}
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Code); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// FindCountry retrieves a country by ID. Returns nil if not found.
func (s *LocationStore) FindCountry(ctx context.Context, id int64) (*models.Country, error) {
	var c models.Country
	err := s.db.QueryRowContext(ctx, `SELECT id, name, slug, code FROM countries WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Slug, &c.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find country: %w", err)
	}
	return &c, nil
}

// CreateCountry inserts a country.
func (s *LocationStore) CreateCountry(ctx context.Context, c *models.Country) (*models.Country, error) {
	out := *c
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO countries (name, slug, code) VALUES ($1, $2, $3)
		RETURNING id
	`, c.Name, c.Slug, c.Code).Scan(&out.ID)
	if err != nil {
		return nil, writeError(err, "create country", "country")
	}
	return &out, nil
}

// UpdateCountry modifies a country.
func (s *LocationStore) UpdateCountry(ctx context.Context, c *models.Country) (*models.Country, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE countries SET name = $1, slug = $2, code = $3 WHERE id = $4
	`, c.Name, c.Slug, c.Code, c.ID)
	if err != nil {
		return nil, writeError(err, "update country", "country")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.NotFound("country")
	}
	return c, nil
}

// DeleteCountry removes a country that nothing references.
func (s *LocationStore) DeleteCountry(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "countries", "country", id)
}

// ListRegions returns the regions of a country ordered by name.
func (s *LocationStore) ListRegions(ctx context.Context, countryID int64) ([]models.Region, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, country_id, name, slug FROM regions
		WHERE country_id = $1 ORDER BY name
	`, countryID)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	defer rows.Close()

	items := []models.Region{}
	for rows.Next() {
		var r models.Region
		if err := rows.Scan(&r.ID, &r.CountryID, &r.Name, &r.Slug); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}

// CreateRegion inserts a region.
func (s *LocationStore) CreateRegion(ctx context.Context, r *models.Region) (*models.Region, error) {
	out := *r
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO regions (country_id, name, slug) VALUES ($1, $2, $3)
		RETURNING id
	`, r.CountryID, r.Name, r.Slug).Scan(&out.ID)
	if err != nil {
		return nil, writeError(err, "create region", "region")
	}
	return &out, nil
}

// UpdateRegion modifies a region.
func (s *LocationStore) UpdateRegion(ctx context.Context, r *models.Region) (*models.Region, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE regions SET country_id = $1, name = $2, slug = $3 WHERE id = $4
	`, r.CountryID, r.Name, r.Slug, r.ID)
	if err != nil {
		return nil, writeError(err, "update region", "region")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.NotFound("region")
	}
	return r, nil
}

// DeleteRegion removes a region that nothing references.
func (s *LocationStore) DeleteRegion(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "regions", "region", id)
}

// ListCities returns the cities of a region ordered by name.
func (s *LocationStore) ListCities(ctx context.Context, regionID int64) ([]models.City, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, country_id, region_id, name, slug FROM cities
		WHERE region_id = $1 ORDER BY name
	`, regionID)
	if err != nil {
		return nil, fmt.Errorf("list cities: %w", err)
	}
	defer rows.Close()

	items := []models.City{}
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.CountryID, &c.RegionID, &c.Name, &c.Slug); err != nil {
			return nil, fmt.Errorf("scan city: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// CreateCity inserts a city.
func (s *LocationStore) CreateCity(ctx context.Context, c *models.City) (*models.City, error) {
	out := *c
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO cities (country_id, region_id, name, slug) VALUES ($1, $2, $3, $4)
		RETURNING id
	`, c.CountryID, c.RegionID, c.Name, c.Slug).Scan(&out.ID)
	if err != nil {
		return nil, writeError(err, "create city", "city")
	}
	return &out, nil
}

// UpdateCity modifies a city.
func (s *LocationStore) UpdateCity(ctx context.Context, c *models.City) (*models.City, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE cities SET country_id = $1, region_id = $2, name = $3, slug = $4 WHERE id = $5
	`, c.CountryID, c.RegionID, c.Name, c.Slug, c.ID)
	if err != nil {
		return nil, writeError(err, "update city", "city")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.NotFound("city")
	}
	return c, nil
}

// DeleteCity removes a city that nothing references.
func (s *LocationStore) DeleteCity(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "cities", "city", id)
}

// deleteRow deletes id from table. table is always a constant supplied by
// this file.
func (s *LocationStore) deleteRow(ctx context.Context, table, what string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
	if err != nil {
		return deleteError(err, "delete "+what, what)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound(what)
	}
	return nil
}
