// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// directory API. Routes are organized into public, user and admin groups
// with the matching guard on each.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"bizdir/internal/apperr"
	"bizdir/internal/config"
	"bizdir/internal/handlers"
	"bizdir/internal/metrics"
	"bizdir/internal/middleware"
	"bizdir/internal/respond"
)

// Handlers bundles the handler groups mounted by New.
type Handlers struct {
	Public      *handlers.Public
	Submissions *handlers.Submissions
	User        *handlers.User
	Admin       *handlers.Admin
	Reference   *handlers.Reference
	Auth        *handlers.Auth
}

// Options carries the transport settings that shape the middleware stack.
type Options struct {
	CORSOrigins   []string
	SecureCookies bool
	RateLimit     config.RateLimitConfig
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(sessions middleware.SessionLoader, h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.CORS(opts.CORSOrigins))
	r.Use(middleware.LoadSession(sessions))
	r.Use(middleware.NewCSRF(opts.SecureCookies))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, apperr.NotFound("route"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusMethodNotAllowed, respond.ErrorBody{Error: respond.ErrorPayload{
			Kind:    "method_not_allowed",
			Message: "method not allowed",
		}})
	})

	rl := opts.RateLimit
	loginLimit := middleware.RateLimit(rl.Login, rl.Window)
	forgotLimit := middleware.RateLimit(rl.ForgotPassword, rl.Window)
	submitLimit := middleware.RateLimit(rl.Submissions, rl.Window)

	r.Get("/health", h.Public.Health)
	r.Handle("/metrics", metrics.Handler())

	// Public directory.
	r.Get("/listings", h.Public.Listings)
	r.Get("/listings/{id}", h.Public.Listing)
	r.Get("/categories", h.Public.Categories)
	r.Get("/categories/{slug}", h.Public.Category)
	r.Get("/countries", h.Public.Countries)
	r.Get("/countries/{id}/regions", h.Public.Regions)
	r.Get("/regions/{id}/cities", h.Public.Cities)
	r.Get("/packages", h.Public.Packages)

	// Submissions: public intake, admin moderation.
	r.Route("/submissions", func(r chi.Router) {
		r.With(submitLimit).Post("/", h.Submissions.Create)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)
			r.Get("/", h.Submissions.List)
			r.Get("/{id}", h.Submissions.Get)
			r.Patch("/{id}/status", h.Submissions.Review)
		})
	})

	// End users.
	r.Route("/user", func(r chi.Router) {
		r.With(loginLimit).Post("/register", h.Auth.UserRegister)
		r.With(loginLimit).Post("/login", h.Auth.UserLogin)
		r.Post("/logout", h.Auth.Logout)
		r.With(forgotLimit).Post("/forgot-password", h.Auth.UserForgotPassword)
		r.With(forgotLimit).Post("/reset-password", h.Auth.UserResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)
			r.Get("/me", h.User.Me)
			r.Get("/listings", h.User.Listings)
			r.Post("/listings", h.User.CreateListing)
			r.Put("/listings/{id}", h.User.UpdateListing)
			r.Delete("/listings/{id}", h.User.DeleteListing)
		})
	})

	// Admins.
	r.Route("/admin", func(r chi.Router) {
		r.With(loginLimit).Post("/login", h.Auth.AdminLogin)
		r.Post("/logout", h.Auth.Logout)
		r.With(forgotLimit).Post("/forgot-password", h.Auth.AdminForgotPassword)
		r.With(forgotLimit).Post("/reset-password", h.Auth.AdminResetPassword)

		// 2FA verify needs a session but NOT a completed second factor.
		r.With(loginLimit).Post("/2fa/verify", h.Auth.AdminVerify2FA)

		// Authenticated + 2FA-verified admin area.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/dashboard", h.Admin.Dashboard)
			r.Get("/2fa/setup", h.Auth.AdminTwoFASetup)
			r.Post("/2fa/enable", h.Auth.AdminTwoFAEnable)
			r.Post("/admins/{id}/reset-2fa", h.Auth.AdminResetTwoFA)

			r.Route("/listings", func(r chi.Router) {
				r.Get("/", h.Admin.Listings)
				r.Post("/cleanup-positions", h.Admin.CleanupPositions)
				r.Get("/{id}", h.Admin.Listing)
				r.Put("/{id}", h.Admin.UpdateListing)
				r.Delete("/{id}", h.Admin.DeleteListing)
				r.Post("/{id}/position", h.Admin.AllocatePosition)
				r.Delete("/{id}/position", h.Admin.ClearPosition)
			})

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", h.Reference.CreateCategory)
				r.Put("/{id}", h.Reference.UpdateCategory)
				r.Delete("/{id}", h.Reference.DeleteCategory)
			})
			r.Route("/countries", func(r chi.Router) {
				r.Post("/", h.Reference.CreateCountry)
				r.Put("/{id}", h.Reference.UpdateCountry)
				r.Delete("/{id}", h.Reference.DeleteCountry)
			})
			r.Route("/regions", func(r chi.Router) {
				r.Post("/", h.Reference.CreateRegion)
				r.Put("/{id}", h.Reference.UpdateRegion)
				r.Delete("/{id}", h.Reference.DeleteRegion)
			})
			r.Route("/cities", func(r chi.Router) {
				r.Post("/", h.Reference.CreateCity)
				r.Put("/{id}", h.Reference.UpdateCity)
				r.Delete("/{id}", h.Reference.DeleteCity)
			})
			r.Route("/packages", func(r chi.Router) {
				r.Get("/", h.Reference.Packages)
				r.Post("/", h.Reference.CreatePackage)
				r.Put("/{id}", h.Reference.UpdatePackage)
				r.Delete("/{id}", h.Reference.DeletePackage)
			})
		})
	})

	return r
}
