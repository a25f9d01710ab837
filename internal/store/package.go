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

// PackageStore manages promotional packages.
type PackageStore struct {
	db *sql.DB
}

// NewPackageStore returns a new PackageStore.
func NewPackageStore(db *sql.DB) *PackageStore {
	return &PackageStore{db: db}
}

const packageColumns = `id, name, slug, price, duration_days, features, active, created_at, updated_at`

func scanPackage(row scanner) (*models.PromotionalPackage, error) {
	var p models.PromotionalPackage
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Price, &p.DurationDays,
		(*jsonStrings)(&p.Features), &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns packages ordered by price. When activeOnly is set,
// inactive packages are skipped.
func (s *PackageStore) List(ctx context.Context, activeOnly bool) ([]models.PromotionalPackage, error) {
	q := `SELECT ` + packageColumns + ` FROM promotional_packages`
	if activeOnly {
		q += ` WHERE active`
	}
	q += ` ORDER BY price, name`

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	items := []models.PromotionalPackage{}
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// FindByID retrieves a package by ID. Returns nil if not found.
func (s *PackageStore) FindByID(ctx context.Context, id int64) (*models.PromotionalPackage, error) {
	return findPackage(ctx, s.db, id)
}

func findPackage(ctx context.Context, q querier, id int64) (*models.PromotionalPackage, error) {
	row := q.QueryRowContext(ctx, `SELECT `+packageColumns+` FROM promotional_packages WHERE id = $1`, id)
	p, err := scanPackage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find package: %w", err)
	}
	return p, nil
}

// Create inserts a package.
func (s *PackageStore) Create(ctx context.Context, p *models.PromotionalPackage) (*models.PromotionalPackage, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO promotional_packages (name, slug, price, duration_days, features, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+packageColumns,
		p.Name, p.Slug, p.Price, p.DurationDays, jsonStrings(p.Features), p.Active,
	)
	out, err := scanPackage(row)
	if err != nil {
		return nil, writeError(err, "create package", "package")
	}
	return out, nil
}

// Update modifies a package.
func (s *PackageStore) Update(ctx context.Context, p *models.PromotionalPackage) (*models.PromotionalPackage, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE promotional_packages SET
			name = $1, slug = $2, price = $3, duration_days = $4,
			features = $5, active = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING `+packageColumns,
		p.Name, p.Slug, p.Price, p.DurationDays, jsonStrings(p.Features), p.Active, p.ID,
	)
	out, err := scanPackage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("package")
	}
	if err != nil {
		return nil, writeError(err, "update package", "package")
	}
	return out, nil
}

// Delete removes a package that no submission or listing references.
func (s *PackageStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM promotional_packages WHERE id = $1`, id)
	if err != nil {
		return deleteError(err, "delete package", "package")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("package")
	}
	return nil
}
