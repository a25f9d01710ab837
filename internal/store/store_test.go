// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"bizdir/internal/database"
	"bizdir/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "bizdir")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "bizdir")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

var fixtureSeq atomic.Int64

// uniq returns a slug unique to this test run.
func uniq(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), fixtureSeq.Add(1))
}

// fixture is a category with a country and region to attach listings to.
type fixture struct {
	CategoryID int64
	CountryID  int64
	RegionID   int64
}

// newFixture creates fresh reference rows and removes everything attached
// to them when the test ends.
func newFixture(t *testing.T, db *sql.DB) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture

	slug := uniq("cat")
	if err := db.QueryRowContext(ctx,
		`INSERT INTO categories (name, slug) VALUES ($1, $1) RETURNING id`, slug,
	).Scan(&f.CategoryID); err != nil {
		t.Fatalf("fixture category: %v", err)
	}

	// All fixtures share one test country; regions and categories are per test.
	if err := db.QueryRowContext(ctx, `
		INSERT INTO countries (name, slug, code) VALUES ('Testland', 'testland', 'ZZ')
		ON CONFLICT (code) DO UPDATE SET name = countries.name
		RETURNING id
	`).Scan(&f.CountryID); err != nil {
		t.Fatalf("fixture country: %v", err)
	}

	rslug := uniq("region")
	if err := db.QueryRowContext(ctx,
		`INSERT INTO regions (country_id, name, slug) VALUES ($1, $2, $2) RETURNING id`, f.CountryID, rslug,
	).Scan(&f.RegionID); err != nil {
		t.Fatalf("fixture region: %v", err)
	}

	t.Cleanup(func() {
		db.Exec(`UPDATE submissions SET listing_id = NULL WHERE category_id = $1`, f.CategoryID)
		db.Exec(`DELETE FROM listings WHERE category_id = $1`, f.CategoryID)
		db.Exec(`DELETE FROM submissions WHERE category_id = $1`, f.CategoryID)
		db.Exec(`DELETE FROM regions WHERE id = $1`, f.RegionID)
		db.Exec(`DELETE FROM categories WHERE id = $1`, f.CategoryID)
	})
	return f
}

func (f fixture) submission(userID *int64) *models.Submission {
	return &models.Submission{
		UserID:        userID,
		BusinessName:  "Acme Bakery",
		Description:   "Fresh bread daily.",
		CategoryID:    f.CategoryID,
		CountryID:     f.CountryID,
		RegionID:      f.RegionID,
		ContactPerson: "Ana",
		Phone:         "+40 700 000 000",
		Email:         "ana@acme.ro",
		MediaURLs:     []string{"https://cdn.example.com/a.jpg"},
		ListingType:   models.ListingTypeFree,
		Status:        models.StatusPending,
	}
}

func (f fixture) listing(userID *int64, status models.Status) *models.Listing {
	return &models.Listing{
		UserID:        userID,
		Title:         "Owned Listing",
		Description:   "Desc",
		CategoryID:    f.CategoryID,
		CountryID:     f.CountryID,
		RegionID:      f.RegionID,
		ContactPerson: "Ion",
		Phone:         "123",
		Email:         "ion@example.com",
		ListingType:   models.ListingTypeFree,
		Status:        status,
	}
}

// testAdmin creates an admin account removed at test end.
func testAdmin(t *testing.T, db *sql.DB) *models.AdminUser {
	t.Helper()
	email := uniq("admin") + "@store-test.local"
	a, err := NewAdminStore(db).Create(context.Background(), email, "password123", "Reviewer")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	t.Cleanup(func() {
		db.Exec(`UPDATE submissions SET reviewed_by = NULL WHERE reviewed_by = $1`, a.ID)
		db.Exec(`DELETE FROM admin_users WHERE id = $1`, a.ID)
	})
	return a
}

// testUser creates an end user removed at test end.
func testUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()
	email := uniq("user") + "@store-test.local"
	u, err := NewUserStore(db).Create(context.Background(), email, "password123", "Owner")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { db.Exec(`DELETE FROM users WHERE id = $1`, u.ID) })
	return u
}
