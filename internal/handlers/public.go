// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/goccy/go-json"

	"bizdir/internal/apperr"
	"bizdir/internal/cache"
	"bizdir/internal/models"
	"bizdir/internal/respond"
	"bizdir/internal/store"
)

// Public serves the anonymous read-only directory endpoints.
type Public struct {
	listings   *store.ListingStore
	categories *store.CategoryStore
	locations  *store.LocationStore
	packages   *store.PackageStore
	cache      *cache.ResponseCache
}

// NewPublic creates the public handler group. respCache may be nil, in
// which case reference data is always read from the database.
func NewPublic(listings *store.ListingStore, categories *store.CategoryStore, locations *store.LocationStore, packages *store.PackageStore, respCache *cache.ResponseCache) *Public {
	return &Public{
		listings:   listings,
		categories: categories,
		locations:  locations,
		packages:   packages,
		cache:      respCache,
	}
}

// Health reports liveness.
func (p *Public) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Listings returns one page of approved listings.
func (p *Public) Listings(w http.ResponseWriter, r *http.Request) {
	f, err := listingFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	approved := models.StatusApproved
	f.Status = &approved

	items, total, err := p.listings.List(r.Context(), f)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Page[models.Listing]{
		Items: items, Total: total, Page: f.Page, PerPage: f.PerPage,
	})
}

// Listing returns one approved listing and counts the view.
func (p *Public) Listing(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	l, err := p.listings.FindApproved(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if l == nil {
		respond.Error(w, r, apperr.NotFound("listing"))
		return
	}
	respond.JSON(w, http.StatusOK, l)
}

// Categories returns the category tree.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, cache.KeyCategoryTree, func(ctx context.Context) (any, error) {
		return p.categories.Tree(ctx)
	})
}

// Category returns a single category by slug.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	c, err := p.categories.FindBySlug(r.Context(), urlParam(r, "slug"))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if c == nil {
		respond.Error(w, r, apperr.NotFound("category"))
		return
	}
	respond.JSON(w, http.StatusOK, c)
}

// Countries returns all countries.
func (p *Public) Countries(w http.ResponseWriter, r *http.Request) {
	countries, err := p.locations.ListCountries(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, countries)
}

// Regions returns the regions of a country.
func (p *Public) Regions(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	country, err := p.locations.FindCountry(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if country == nil {
		respond.Error(w, r, apperr.NotFound("country"))
		return
	}
	regions, err := p.locations.ListRegions(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, regions)
}

// Cities returns the cities of a region.
func (p *Public) Cities(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	cities, err := p.locations.ListCities(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, cities)
}

// Packages returns the active promotional packages.
func (p *Public) Packages(w http.ResponseWriter, r *http.Request) {
	p.cached(w, r, cache.KeyActivePackages, func(ctx context.Context) (any, error) {
		return p.packages.List(ctx, true)
	})
}

// cached serves key from the response cache, loading and storing it on a
// miss.
func (p *Public) cached(w http.ResponseWriter, r *http.Request, key string, load func(context.Context) (any, error)) {
	if p.cache != nil {
		if body, ok := p.cache.Get(r.Context(), key); ok {
			writeRaw(w, body)
			return
		}
	}

	v, err := load(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	body, err := json.Marshal(v)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if p.cache != nil {
		p.cache.Set(r.Context(), key, body)
	}
	writeRaw(w, body)
}

// writeRaw writes an already encoded JSON body with status 200.
func writeRaw(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
