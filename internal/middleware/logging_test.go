// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"bizdir/internal/respond"
)

func TestResponseWriterCapturesStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rr, statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusConflict)
	rw.WriteHeader(http.StatusOK) // ignored for the captured value
	if rw.statusCode != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rw.statusCode)
	}
}

func TestResponseWriterDefaultStatus(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder()}
	rw.Write([]byte("ok"))
	if rw.statusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", rw.statusCode)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromCtx(r.Context())
	}))

	t.Run("generates id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		got := rr.Header().Get(respond.RequestIDHeader)
		if _, err := uuid.Parse(got); err != nil {
			t.Errorf("header %q is not a uuid", got)
		}
		if seen != got {
			t.Errorf("context id %q != header %q", seen, got)
		}
	})

	t.Run("reuses valid incoming id", func(t *testing.T) {
		id := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(respond.RequestIDHeader, id)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Header().Get(respond.RequestIDHeader) != id {
			t.Error("incoming id not echoed")
		}
	})

	t.Run("replaces garbage id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(respond.RequestIDHeader, "<script>")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Header().Get(respond.RequestIDHeader) == "<script>" {
			t.Error("invalid incoming id must not be echoed")
		}
	})
}

func TestLoggerPassesThrough(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusTeapot {
		t.Errorf("status: got %d, want 418", rr.Code)
	}
}
