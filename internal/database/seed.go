// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Default development credentials created by Seed.
const (
	SeedAdminEmail    = "admin@bizdir.local"
	SeedAdminPassword = "admin"
)

// Seed populates the database with initial development data: a default
// admin, a few categories, one country with a region and city, and two
// promotional packages. It does nothing when an admin already exists.
// The admin is expected to enroll 2FA after first login.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin_users").Scan(&count); err != nil {
		return fmt.Errorf("seed check admins: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(SeedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO admin_users (email, password_hash, display_name, totp_enabled)
		VALUES ($1, $2, $3, FALSE)
		ON CONFLICT (email) DO NOTHING
	`, SeedAdminEmail, string(hash), "Admin"); err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	categories := []struct{ name, slug, desc string }{
		{"Restaurants", "restaurants", "Places to eat and drink"},
		{"Services", "services", "Professional and home services"},
		{"Retail", "retail", "Shops and stores"},
	}
	for i, c := range categories {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO categories (name, slug, description, sort_order)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (slug) DO NOTHING
		`, c.name, c.slug, c.desc, i); err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.slug, err)
		}
	}

	var countryID, regionID int64
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO countries (name, slug, code) VALUES ('Romania', 'romania', 'RO')
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`).Scan(&countryID); err != nil {
		return fmt.Errorf("seed insert country: %w", err)
	}
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO regions (country_id, name, slug) VALUES ($1, 'Cluj', 'cluj')
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, countryID).Scan(&regionID); err != nil {
		return fmt.Errorf("seed insert region: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cities (country_id, region_id, name, slug) VALUES ($1, $2, 'Cluj-Napoca', 'cluj-napoca')
		ON CONFLICT (slug) DO NOTHING
	`, countryID, regionID); err != nil {
		return fmt.Errorf("seed insert city: %w", err)
	}

	packages := []struct {
		name, slug string
		price      int64
		days       int
		features   string
	}{
		{"Basic Boost", "basic-boost", 1900, 30, `["Highlighted in search"]`},
		{"Premium Spotlight", "premium-spotlight", 4900, 90, `["Highlighted in search", "Homepage rotation", "Priority support"]`},
	}
	for _, p := range packages {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO promotional_packages (name, slug, price, duration_days, features)
			VALUES ($1, $2, $3, $4, $5::jsonb)
			ON CONFLICT (slug) DO NOTHING
		`, p.name, p.slug, p.price, p.days, p.features); err != nil {
			return fmt.Errorf("seed insert package %s: %w", p.slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", SeedAdminEmail,
		"password", SeedAdminPassword,
	)
	return nil
}
