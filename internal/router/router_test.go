// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration and the
// middleware chains. Handlers run with nil stores, so only paths that
// stop before the data layer are exercised here.
package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"bizdir/internal/config"
	"bizdir/internal/handlers"
	"bizdir/internal/respond"
	"bizdir/internal/session"
)

type fakeSessions struct {
	data *session.Data
}

func (f fakeSessions) Get(_ context.Context, _ *http.Request) (*session.Data, error) {
	return f.data, nil
}

func newTestRouter(data *session.Data, rl config.RateLimitConfig) http.Handler {
	h := Handlers{
		Public:      handlers.NewPublic(nil, nil, nil, nil, nil),
		Submissions: handlers.NewSubmissions(nil),
		User:        handlers.NewUser(nil, nil),
		Admin:       handlers.NewAdmin(nil, nil, nil),
		Reference:   handlers.NewReference(nil, nil, nil, nil),
		Auth:        handlers.NewAuth(nil, nil, nil, nil, 30*time.Minute, "http://localhost/reset"),
	}
	return New(fakeSessions{data: data}, h, Options{
		CORSOrigins: []string{"http://localhost:5173"},
		RateLimit:   rl,
	})
}

func do(t *testing.T, h http.Handler, method, target, body string, cookie bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if cookie {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "abc"})
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorKind(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body respond.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return string(body.Error.Kind)
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(nil, config.RateLimitConfig{}), http.MethodGet, "/health", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content-type: got %q", ct)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
	if rec.Header().Get(respond.RequestIDHeader) == "" {
		t.Error("missing request id header")
	}
}

func TestMetricsExposed(t *testing.T) {
	h := newTestRouter(nil, config.RateLimitConfig{})
	do(t, h, http.MethodGet, "/health", "", false)

	rec := do(t, h, http.MethodGet, "/metrics", "", false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "bizdir_http_request_duration_seconds") {
		t.Error("request duration histogram not exported")
	}
}

func TestUnknownRoute(t *testing.T) {
	h := newTestRouter(nil, config.RateLimitConfig{})

	rec := do(t, h, http.MethodGet, "/nope", "", false)
	if rec.Code != http.StatusNotFound || errorKind(t, rec) != "not_found" {
		t.Errorf("unknown route: %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPut, "/health", "", false)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("PUT /health: got %d", rec.Code)
	}
}

func TestGuards(t *testing.T) {
	admin := &session.Data{Kind: "admin", ID: 1, TwoFADone: true}
	pending := &session.Data{Kind: "admin", ID: 1}
	user := &session.Data{Kind: "user", ID: 2}

	tests := []struct {
		name   string
		sess   *session.Data
		method string
		path   string
		want   int
	}{
		{"anonymous admin area", nil, http.MethodGet, "/admin/dashboard", http.StatusUnauthorized},
		{"pending 2fa admin area", pending, http.MethodGet, "/admin/dashboard", http.StatusUnauthorized},
		{"user admin area", user, http.MethodGet, "/admin/dashboard", http.StatusForbidden},
		{"anonymous moderation queue", nil, http.MethodGet, "/submissions", http.StatusUnauthorized},
		{"user review", user, http.MethodGet, "/submissions/1", http.StatusForbidden},
		{"anonymous user area", nil, http.MethodGet, "/user/me", http.StatusUnauthorized},
		{"admin user area", admin, http.MethodGet, "/user/listings", http.StatusForbidden},
		{"anonymous 2fa setup", nil, http.MethodGet, "/admin/2fa/setup", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestRouter(tt.sess, config.RateLimitConfig{}), tt.method, tt.path, "", false)
			if rec.Code != tt.want {
				t.Errorf("got %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

// TestTwoFactorVerifyOutsideAdminGuard verifies that an admin with a
// pending second factor reaches the verify handler.
func TestTwoFactorVerifyOutsideAdminGuard(t *testing.T) {
	pending := &session.Data{Kind: "admin", ID: 1}
	rec := do(t, newTestRouter(pending, config.RateLimitConfig{}), http.MethodPost, "/admin/2fa/verify", `{"code":"12"}`, false)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("got %d, want 400 from the handler (body %s)", rec.Code, rec.Body.String())
	}
}

func TestCSRFWithSessionCookie(t *testing.T) {
	user := &session.Data{Kind: "user", ID: 2}
	rec := do(t, newTestRouter(user, config.RateLimitConfig{}), http.MethodPost, "/user/listings", `{}`, true)
	if rec.Code != http.StatusForbidden {
		t.Errorf("POST without CSRF header: got %d, want 403", rec.Code)
	}
}

func TestLoginRateLimited(t *testing.T) {
	h := newTestRouter(nil, config.RateLimitConfig{Login: 2, Window: time.Minute})

	for i := range 2 {
		rec := do(t, h, http.MethodPost, "/admin/login", `{}`, false)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("attempt %d: got %d, want 400", i+1, rec.Code)
		}
	}
	rec := do(t, h, http.MethodPost, "/admin/login", `{}`, false)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("third attempt: got %d, want 429", rec.Code)
	}

	// Other routes are not limited by the login limiter.
	rec = do(t, h, http.MethodGet, "/health", "", false)
	if rec.Code != http.StatusOK {
		t.Errorf("health after limit: got %d", rec.Code)
	}
}

func TestCORSPreflightOnAPI(t *testing.T) {
	h := newTestRouter(nil, config.RateLimitConfig{})
	req := httptest.NewRequest(http.MethodOptions, "/submissions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
