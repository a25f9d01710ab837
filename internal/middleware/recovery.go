// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"bizdir/internal/apperr"
	"bizdir/internal/metrics"
	"bizdir/internal/respond"
)

// Recoverer turns a handler panic into the standard internal error body.
// http.ErrAbortHandler is re-raised so net/http can drop the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			metrics.PanicsRecovered.Inc()
			logger := slog.With("request_id", RequestIDFromCtx(r.Context()))
			logger.Error("handler panic",
				"panic", rec,
				"route", r.Method+" "+r.URL.Path,
				"stack", string(debug.Stack()),
			)
			respond.Error(w, r, apperr.Internal(fmt.Errorf("recovered panic: %v", rec)))
		}()

		next.ServeHTTP(w, r)
	})
}
