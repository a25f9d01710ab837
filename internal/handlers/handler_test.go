// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler integration
// tests. Tests are skipped when PostgreSQL or Valkey are unavailable.
package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"bizdir/internal/auth"
	"bizdir/internal/cache"
	"bizdir/internal/database"
	"bizdir/internal/mailer"
	"bizdir/internal/models"
	"bizdir/internal/respond"
	"bizdir/internal/session"
	"bizdir/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test PostgreSQL and runs migrations.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "bizdir")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "bizdir")
	dsn := "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping: cannot open DB: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		t.Skipf("skipping: DB not reachable: %v", err)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		db.Close()
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		for _, pattern := range []string{"session:*", "resp:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// recordingMailer keeps sent messages for inspection.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Message(nil), m.sent...)
}

// sentMail waits for background deliveries and returns what was sent.
func (env *testEnv) sentMail() []mailer.Message {
	env.Outbox.Wait()
	return env.Mail.messages()
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB          *sql.DB
	Valkey      *redis.Client
	Sessions    *session.Store
	Cache       *cache.ResponseCache
	Mail        *recordingMailer
	Outbox      *mailer.Async
	Listings    *store.ListingStore
	Submissions *store.SubmissionStore
	Users       *store.UserStore
	Admins      *store.AdminStore
	Categories  *store.CategoryStore
	Locations   *store.LocationStore
	Packages    *store.PackageStore

	Public    *Public
	SubmitH   *Submissions
	User      *User
	Admin     *Admin
	Reference *Reference
	Auth      *Auth
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	env := &testEnv{
		DB:          db,
		Valkey:      vk,
		Sessions:    session.NewStore(vk, false),
		Cache:       cache.NewResponseCache(vk, time.Minute),
		Mail:        &recordingMailer{},
		Listings:    store.NewListingStore(db),
		Submissions: store.NewSubmissionStore(db),
		Users:       store.NewUserStore(db),
		Admins:      store.NewAdminStore(db),
		Categories:  store.NewCategoryStore(db),
		Locations:   store.NewLocationStore(db),
		Packages:    store.NewPackageStore(db),
	}
	env.Public = NewPublic(env.Listings, env.Categories, env.Locations, env.Packages, env.Cache)
	env.SubmitH = NewSubmissions(env.Submissions)
	env.User = NewUser(env.Users, env.Listings)
	env.Admin = NewAdmin(env.Listings, env.Submissions, env.Users)
	env.Reference = NewReference(env.Categories, env.Locations, env.Packages, env.Cache)
	env.Outbox = mailer.NewAsync(env.Mail, 5*time.Second)
	env.Auth = NewAuth(env.Sessions, env.Admins, env.Users, env.Outbox, 30*time.Minute, "http://localhost:5173/reset-password")
	return env
}

var fixtureSeq atomic.Int64

// uniq returns a string unique to this test run.
func uniq(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), fixtureSeq.Add(1))
}

// fixture is a category with a country and region to attach listings to.
type fixture struct {
	CategoryID int64
	CountryID  int64
	RegionID   int64
}

// newFixture creates reference rows and removes everything attached to
// them when the test ends.
func (env *testEnv) newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	var f fixture

	if err := env.DB.QueryRowContext(ctx,
		`INSERT INTO categories (name, slug) VALUES ($1, $1) RETURNING id`, uniq("cat"),
	).Scan(&f.CategoryID); err != nil {
		t.Fatalf("fixture category: %v", err)
	}
	if err := env.DB.QueryRowContext(ctx, `
		INSERT INTO countries (name, slug, code) VALUES ('Testland', 'testland', 'ZZ')
		ON CONFLICT (code) DO UPDATE SET name = countries.name
		RETURNING id
	`).Scan(&f.CountryID); err != nil {
		t.Fatalf("fixture country: %v", err)
	}
	if err := env.DB.QueryRowContext(ctx,
		`INSERT INTO regions (country_id, name, slug) VALUES ($1, $2, $2) RETURNING id`, f.CountryID, uniq("region"),
	).Scan(&f.RegionID); err != nil {
		t.Fatalf("fixture region: %v", err)
	}

	t.Cleanup(func() {
		env.DB.Exec(`UPDATE submissions SET listing_id = NULL WHERE category_id = $1`, f.CategoryID)
		env.DB.Exec(`DELETE FROM listings WHERE category_id = $1`, f.CategoryID)
		env.DB.Exec(`DELETE FROM submissions WHERE category_id = $1`, f.CategoryID)
		env.DB.Exec(`DELETE FROM regions WHERE id = $1`, f.RegionID)
		env.DB.Exec(`DELETE FROM categories WHERE id = $1`, f.CategoryID)
	})
	return f
}

// submissionBody returns a valid intake payload for f.
func (f fixture) submissionBody() map[string]any {
	return map[string]any{
		"business_name":  "Acme Bakery",
		"description":    "Fresh bread daily.",
		"category_id":    f.CategoryID,
		"country_id":     f.CountryID,
		"region_id":      f.RegionID,
		"contact_person": "Ana",
		"phone":          "+40 700 000 000",
		"email":          "ana@acme.ro",
		"media_urls":     []string{"https://cdn.example.com/a.jpg"},
		"listing_type":   "free",
	}
}

// listingBody returns a valid self-service listing payload for f.
func (f fixture) listingBody() map[string]any {
	return map[string]any{
		"title":          "Owned Listing",
		"description":    "Desc",
		"category_id":    f.CategoryID,
		"country_id":     f.CountryID,
		"region_id":      f.RegionID,
		"contact_person": "Ion",
		"phone":          "123",
		"email":          "ion@example.com",
	}
}

// insertListing stores a listing directly with the given owner and status.
func (env *testEnv) insertListing(t *testing.T, f fixture, userID *int64, status models.Status) *models.Listing {
	t.Helper()
	l, err := env.Listings.Create(context.Background(), &models.Listing{
		UserID: userID, Title: "Listing", Description: "Desc",
		CategoryID: f.CategoryID, CountryID: f.CountryID, RegionID: f.RegionID,
		ContactPerson: "Ion", Phone: "123", Email: "ion@example.com",
		ListingType: models.ListingTypeFree, Status: status,
	})
	if err != nil {
		t.Fatalf("insert listing: %v", err)
	}
	return l
}

// testAdmin creates an admin account removed at test end.
func (env *testEnv) testAdmin(t *testing.T, password string) *models.AdminUser {
	t.Helper()
	a, err := env.Admins.Create(context.Background(), uniq("admin")+"@handler-test.local", password, "Reviewer")
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec(`UPDATE submissions SET reviewed_by = NULL WHERE reviewed_by = $1`, a.ID)
		env.DB.Exec(`DELETE FROM admin_users WHERE id = $1`, a.ID)
	})
	return a
}

// testUser creates an end user removed at test end.
func (env *testEnv) testUser(t *testing.T, password string) *models.User {
	t.Helper()
	u, err := env.Users.Create(context.Background(), uniq("user")+"@handler-test.local", password, "Owner")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() {
		env.DB.Exec(`DELETE FROM listings WHERE user_id = $1`, u.ID)
		env.DB.Exec(`UPDATE submissions SET user_id = NULL WHERE user_id = $1`, u.ID)
		env.DB.Exec(`DELETE FROM users WHERE id = $1`, u.ID)
	})
	return u
}

// --- request helpers ---

func adminPrincipal(id int64) auth.Principal {
	return auth.Principal{Kind: auth.Admin, ID: id, TwoFADone: true}
}

func userPrincipal(id int64) auth.Principal {
	return auth.Principal{Kind: auth.User, ID: id}
}

// request builds a request with an optional JSON body, principal and chi
// URL parameters given as name/value pairs.
func request(t *testing.T, method, target string, body any, p auth.Principal, params ...string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")

	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = auth.WithPrincipal(ctx, p)
	return req.WithContext(ctx)
}

// serve runs h and returns the recorder.
func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

// decode unmarshals the response body into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
}

// errorOf decodes an error response.
func errorOf(t *testing.T, rec *httptest.ResponseRecorder) respond.ErrorPayload {
	t.Helper()
	var body respond.ErrorBody
	decode(t, rec, &body)
	return body.Error
}

// expectStatus fails the test when the recorder has another status.
func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status: got %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}

func itoa(v int64) string { return fmt.Sprint(v) }
