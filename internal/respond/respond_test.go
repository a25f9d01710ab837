// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package respond

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"bizdir/internal/apperr"
)

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorPayload {
	t.Helper()
	var body ErrorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return body.Error
}

func TestErrorMapsKinds(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   apperr.Kind
	}{
		{apperr.Invalid("bad"), http.StatusBadRequest, apperr.KindValidation},
		{apperr.Unauthorized("login"), http.StatusUnauthorized, apperr.KindUnauthorized},
		{apperr.Forbidden("no"), http.StatusForbidden, apperr.KindForbidden},
		{apperr.NotFound("listing"), http.StatusNotFound, apperr.KindNotFound},
		{apperr.Conflict("taken").WithDetail("listing_id", 7), http.StatusConflict, apperr.KindConflict},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			rr := httptest.NewRecorder()
			Error(rr, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			if rr.Code != tt.status {
				t.Errorf("status: got %d, want %d", rr.Code, tt.status)
			}
			if got := decodeError(t, rr); got.Kind != tt.kind {
				t.Errorf("kind: got %q, want %q", got.Kind, tt.kind)
			}
		})
	}
}

func TestErrorConflictDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, httptest.NewRequest(http.MethodPost, "/", nil), apperr.Conflict("taken").WithDetail("listing_id", 7))

	got := decodeError(t, rr)
	if got.Details["listing_id"] != float64(7) {
		t.Errorf("details: got %v", got.Details)
	}
}

func TestErrorHidesInternalCause(t *testing.T) {
	rr := httptest.NewRecorder()
	Error(rr, httptest.NewRequest(http.MethodGet, "/", nil),
		errors.New(`pq: insert violates foreign key constraint "listings_category_id_fkey"`))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "constraint") {
		t.Errorf("database text leaked: %s", rr.Body.String())
	}
	if got := decodeError(t, rr); got.Kind != apperr.KindInternal || got.Message != "internal server error" {
		t.Errorf("payload: %+v", got)
	}
}

func TestJSON(t *testing.T) {
	rr := httptest.NewRecorder()
	JSON(rr, http.StatusCreated, Message{Message: "ok"})

	if rr.Code != http.StatusCreated {
		t.Errorf("status: got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type: %q", ct)
	}
	if !strings.Contains(rr.Body.String(), `"message":"ok"`) {
		t.Errorf("body: %s", rr.Body.String())
	}
}
