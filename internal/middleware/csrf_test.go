// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"bizdir/internal/session"
)

func TestNewCSRFSecureFlag(t *testing.T) {
	for _, secure := range []bool{true, false} {
		handler := NewCSRF(secure)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/listings", nil))

		var found bool
		for _, c := range rr.Result().Cookies() {
			if c.Name == CSRFCookieName {
				found = true
				if c.Secure != secure {
					t.Errorf("cookie Secure: got %v, want %v", c.Secure, secure)
				}
				if c.SameSite != http.SameSiteStrictMode {
					t.Errorf("cookie SameSite: got %v, want StrictMode", c.SameSite)
				}
				if c.HttpOnly {
					t.Error("CSRF cookie must be readable by the front-end")
				}
			}
		}
		if !found {
			t.Error("CSRF cookie not set")
		}
	}
}

func TestCSRFValidation(t *testing.T) {
	const token = "abc123"
	sessionCookie := &http.Cookie{Name: session.CookieName, Value: "sess"}
	csrfCookie := &http.Cookie{Name: CSRFCookieName, Value: token}

	tests := []struct {
		name       string
		method     string
		cookies    []*http.Cookie
		header     string
		wantStatus int
	}{
		{"safe method with session", http.MethodGet, []*http.Cookie{sessionCookie, csrfCookie}, "", http.StatusOK},
		{"anonymous post without token", http.MethodPost, nil, "", http.StatusOK},
		{"session post without token", http.MethodPost, []*http.Cookie{sessionCookie, csrfCookie}, "", http.StatusForbidden},
		{"session post wrong token", http.MethodDelete, []*http.Cookie{sessionCookie, csrfCookie}, "nope", http.StatusForbidden},
		{"session post right token", http.MethodPut, []*http.Cookie{sessionCookie, csrfCookie}, token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, _ := okHandler()
			req := httptest.NewRequest(tt.method, "/user/listings/1", nil)
			for _, c := range tt.cookies {
				req.AddCookie(c)
			}
			if tt.header != "" {
				req.Header.Set(CSRFHeaderName, tt.header)
			}
			rr := httptest.NewRecorder()
			NewCSRF(false)(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rr.Code, tt.wantStatus)
			}
		})
	}
}
