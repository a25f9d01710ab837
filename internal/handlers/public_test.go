// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"testing"

	"bizdir/internal/auth"
	"bizdir/internal/cache"
	"bizdir/internal/models"
)

func TestPublicListingsApprovedOnly(t *testing.T) {
	env := newTestEnv(t)
	f := env.newFixture(t)
	approved := env.insertListing(t, f, nil, models.StatusApproved)
	pending := env.insertListing(t, f, nil, models.StatusPending)

	// A status parameter cannot widen the public view.
	rec := serve(env.Public.Listings, request(t, http.MethodGet,
		"/listings?status=pending&category_id="+itoa(f.CategoryID), nil, auth.Principal{}))
	expectStatus(t, rec, http.StatusOK)

	var page struct {
		Items []models.Listing `json:"items"`
		Total int              `json:"total"`
	}
	decode(t, rec, &page)
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].ID != approved.ID {
		t.Errorf("public listings = %+v", page)
	}

	rec = serve(env.Public.Listing, request(t, http.MethodGet, "/", nil, auth.Principal{}, "id", itoa(approved.ID)))
	expectStatus(t, rec, http.StatusOK)

	rec = serve(env.Public.Listing, request(t, http.MethodGet, "/", nil, auth.Principal{}, "id", itoa(pending.ID)))
	expectStatus(t, rec, http.StatusNotFound)
}

func TestPublicRegionsUnknownCountry(t *testing.T) {
	env := newTestEnv(t)
	rec := serve(env.Public.Regions, request(t, http.MethodGet, "/", nil, auth.Principal{}, "id", itoa(1<<40)))
	expectStatus(t, rec, http.StatusNotFound)
}

func TestPublicRegionsAndCities(t *testing.T) {
	env := newTestEnv(t)
	f := env.newFixture(t)

	rec := serve(env.Public.Regions, request(t, http.MethodGet, "/", nil, auth.Principal{}, "id", itoa(f.CountryID)))
	expectStatus(t, rec, http.StatusOK)
	var regions []models.Region
	decode(t, rec, &regions)
	found := false
	for _, r := range regions {
		found = found || r.ID == f.RegionID
	}
	if !found {
		t.Errorf("region %d missing from %+v", f.RegionID, regions)
	}

	rec = serve(env.Public.Cities, request(t, http.MethodGet, "/", nil, auth.Principal{}, "id", itoa(f.RegionID)))
	expectStatus(t, rec, http.StatusOK)
}

// TestCategoryTreeCache verifies the tree is cached on read and dropped
// when a category changes.
func TestCategoryTreeCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	env.Cache.Invalidate(ctx, cache.KeyCategoryTree)

	rec := serve(env.Public.Categories, request(t, http.MethodGet, "/categories", nil, auth.Principal{}))
	expectStatus(t, rec, http.StatusOK)
	if _, ok := env.Cache.Get(ctx, cache.KeyCategoryTree); !ok {
		t.Fatal("category tree not cached after read")
	}

	name := uniq("Cached")
	rec = serve(env.Reference.CreateCategory, request(t, http.MethodPost, "/", map[string]string{"name": name}, adminPrincipal(1)))
	expectStatus(t, rec, http.StatusCreated)
	var c models.Category
	decode(t, rec, &c)
	t.Cleanup(func() { env.DB.Exec(`DELETE FROM categories WHERE id = $1`, c.ID) })

	if _, ok := env.Cache.Get(ctx, cache.KeyCategoryTree); ok {
		t.Error("category tree still cached after create")
	}

	rec = serve(env.Public.Categories, request(t, http.MethodGet, "/categories", nil, auth.Principal{}))
	expectStatus(t, rec, http.StatusOK)
	var tree []models.Category
	decode(t, rec, &tree)
	found := false
	for _, n := range tree {
		found = found || n.ID == c.ID
	}
	if !found {
		t.Errorf("new root category %d missing from tree", c.ID)
	}
}
