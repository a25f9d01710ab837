// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"bizdir/internal/apperr"
	"bizdir/internal/auth"
	"bizdir/internal/respond"
	"bizdir/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// SessionLoader reads the session behind a request.
type SessionLoader interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
}

// LoadSession retrieves the session from Valkey, stores it in the request
// context and derives the request principal from it. Requests without a
// valid session carry an anonymous principal. This middleware does NOT
// enforce authentication.
func LoadSession(store SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session load failed", "error", err)
				data = nil
			}

			ctx := auth.WithPrincipal(r.Context(), data.Principal())
			if data != nil {
				ctx = context.WithValue(ctx, SessionKey, data)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin admits fully authenticated admins. Anonymous callers and
// admins with an outstanding second factor get 401; end users get 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		switch {
		case p.IsAdmin():
			next.ServeHTTP(w, r)
		case p.Kind == auth.Admin:
			respond.Error(w, r, apperr.Unauthorized("two-factor verification required"))
		case p.Kind == auth.User:
			respond.Error(w, r, apperr.Forbidden("admin access required"))
		default:
			respond.Error(w, r, apperr.Unauthorized("authentication required"))
		}
	})
}

// RequireUser admits end users. Anonymous callers get 401; admins get 403
// because user routes act on the caller's own listings.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := auth.FromContext(r.Context())
		switch p.Kind {
		case auth.User:
			next.ServeHTTP(w, r)
		case auth.Admin:
			respond.Error(w, r, apperr.Forbidden("user account required"))
		default:
			respond.Error(w, r, apperr.Unauthorized("authentication required"))
		}
	})
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}
