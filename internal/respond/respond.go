// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package respond writes JSON API responses. Error is the one place where
// application errors are translated into HTTP status codes and bodies.
package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"

	"bizdir/internal/apperr"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error ErrorPayload `json:"error"`
}

// ErrorPayload carries the error kind, a client-safe message and optional
// structured details.
type ErrorPayload struct {
	Kind    apperr.Kind    `json:"kind"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// Error translates err into a JSON error response. An *apperr.Error is
// reported as-is, except that internal errors never expose their message or
// cause. Any other error is logged and reported as an opaque internal error.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal(err)
	}

	if appErr.Kind == apperr.KindInternal {
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", w.Header().Get(RequestIDHeader),
			"error", err,
		)
		JSON(w, http.StatusInternalServerError, ErrorBody{Error: ErrorPayload{
			Kind:    apperr.KindInternal,
			Message: "internal server error",
		}})
		return
	}

	JSON(w, apperr.HTTPStatus(appErr.Kind), ErrorBody{Error: ErrorPayload{
		Kind:    appErr.Kind,
		Message: appErr.Message,
		Details: appErr.Details,
	}})
}

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Message is a body for endpoints that only acknowledge.
type Message struct {
	Message string `json:"message"`
}

// Page wraps one page of a list response.
type Page[T any] struct {
	Items   []T `json:"items"`
	Total   int `json:"total"`
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}
