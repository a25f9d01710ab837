// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the BizDir JSON API.
// Handlers are grouped by concern (public, submissions, user, admin,
// reference data, auth) and receive their dependencies through the handler
// struct. Every failure goes through respond.Error.
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"bizdir/internal/apperr"
	"bizdir/internal/directory"
	"bizdir/internal/models"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// decodeJSON reads a single JSON object from the request body into v.
// Unknown fields are rejected so clients cannot smuggle in fields such as
// user_id or status.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Invalid("request body is required")
		case errors.As(err, &maxErr):
			return apperr.Invalid("request body is too large")
		default:
			return apperr.Invalid("malformed JSON body: %s", err.Error())
		}
	}
	if dec.More() {
		return apperr.Invalid("request body must contain a single JSON object")
	}
	return nil
}

// idParam parses a positive int64 URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.Invalid("invalid %s", name)
	}
	return id, nil
}

// queryID parses an optional positive int64 query parameter.
func queryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return nil, apperr.Invalid("invalid %s", name)
	}
	return &id, nil
}

// queryBool parses an optional boolean query parameter.
func queryBool(r *http.Request, name string) (*bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.Invalid("invalid %s", name)
	}
	return &b, nil
}

// queryStatus parses an optional status filter.
func queryStatus(r *http.Request) (*models.Status, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return nil, nil
	}
	s := models.Status(raw)
	if !s.Valid() {
		return nil, apperr.Invalid("status must be one of: pending approved rejected")
	}
	return &s, nil
}

// pageParams reads page and per_page, falling back to defaults on absent
// or malformed values and clamping per_page.
func pageParams(r *http.Request) (page, perPage int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage < 1 {
		perPage = directory.DefaultPerPage
	}
	if perPage > directory.MaxPerPage {
		perPage = directory.MaxPerPage
	}
	return page, perPage
}

// listingFilter builds a listing filter from the query string.
func listingFilter(r *http.Request) (models.ListingFilter, error) {
	var f models.ListingFilter
	var err error

	if f.CategoryID, err = queryID(r, "category_id"); err != nil {
		return f, err
	}
	if f.CountryID, err = queryID(r, "country_id"); err != nil {
		return f, err
	}
	if f.RegionID, err = queryID(r, "region_id"); err != nil {
		return f, err
	}
	if f.CityID, err = queryID(r, "city_id"); err != nil {
		return f, err
	}
	if f.Featured, err = queryBool(r, "featured"); err != nil {
		return f, err
	}
	f.Search = strings.TrimSpace(r.URL.Query().Get("q"))
	f.Page, f.PerPage = pageParams(r)
	return f, nil
}

// urlParam returns a trimmed chi URL parameter.
func urlParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}
