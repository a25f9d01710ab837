// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"bizdir/internal/respond"
)

// CORS allows the browser front-end at origins to call the API with
// credentials. An empty origin list disables cross-origin access.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", CSRFHeaderName, respond.RequestIDHeader},
		ExposedHeaders:   []string{respond.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
