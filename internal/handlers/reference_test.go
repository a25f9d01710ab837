// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strings"
	"testing"

	"bizdir/internal/auth"
	"bizdir/internal/models"
)

func TestCategoryCRUD(t *testing.T) {
	env := newTestEnv(t)
	name := uniq("Brașov Bakeries")

	rec := serve(env.Reference.CreateCategory, request(t, http.MethodPost, "/", map[string]string{"name": name}, adminPrincipal(1)))
	expectStatus(t, rec, http.StatusCreated)
	var c models.Category
	decode(t, rec, &c)
	t.Cleanup(func() { env.DB.Exec(`DELETE FROM categories WHERE id = $1`, c.ID) })
	if !strings.HasPrefix(c.Slug, "brasov-bakeries-") {
		t.Errorf("slug = %q", c.Slug)
	}

	// Same slug again.
	rec = serve(env.Reference.CreateCategory, request(t, http.MethodPost, "/",
		map[string]string{"name": "Other", "slug": c.Slug}, adminPrincipal(1)))
	expectStatus(t, rec, http.StatusConflict)

	rec = serve(env.Reference.UpdateCategory, request(t, http.MethodPut, "/",
		map[string]any{"name": "Renamed", "slug": c.Slug, "sort_order": 4}, adminPrincipal(1), "id", itoa(c.ID)))
	expectStatus(t, rec, http.StatusOK)
	var updated models.Category
	decode(t, rec, &updated)
	if updated.Name != "Renamed" || updated.SortOrder != 4 {
		t.Errorf("updated = %+v", updated)
	}

	rec = serve(env.Public.Category, request(t, http.MethodGet, "/", nil, auth.Principal{}, "slug", c.Slug))
	expectStatus(t, rec, http.StatusOK)

	rec = serve(env.Reference.DeleteCategory, request(t, http.MethodDelete, "/", nil, adminPrincipal(1), "id", itoa(c.ID)))
	expectStatus(t, rec, http.StatusNoContent)

	rec = serve(env.Reference.DeleteCategory, request(t, http.MethodDelete, "/", nil, adminPrincipal(1), "id", itoa(c.ID)))
	expectStatus(t, rec, http.StatusNotFound)
}

// TestDeleteReferencedCategory verifies that a category still used by a
// listing cannot be removed.
func TestDeleteReferencedCategory(t *testing.T) {
	env := newTestEnv(t)
	f := env.newFixture(t)
	env.insertListing(t, f, nil, models.StatusApproved)

	rec := serve(env.Reference.DeleteCategory, request(t, http.MethodDelete, "/", nil, adminPrincipal(1), "id", itoa(f.CategoryID)))
	expectStatus(t, rec, http.StatusConflict)
}

func TestCountryCodeNormalized(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(env.Reference.CreateCountry, request(t, http.MethodPost, "/",
		map[string]string{"name": uniq("Yland"), "code": "yy"}, adminPrincipal(1)))
	expectStatus(t, rec, http.StatusCreated)
	var c models.Country
	decode(t, rec, &c)
	t.Cleanup(func() { env.DB.Exec(`DELETE FROM countries WHERE id = $1`, c.ID) })
	if c.Code != "YY" {
		t.Errorf("code = %q, want YY", c.Code)
	}
}

// TestInactivePackageHidden verifies that public package listing only
// shows active packages while the admin list shows all.
func TestInactivePackageHidden(t *testing.T) {
	env := newTestEnv(t)

	rec := serve(env.Reference.CreatePackage, request(t, http.MethodPost, "/", map[string]any{
		"name": uniq("Retired"), "price": 1000, "duration_days": 30, "features": []string{"top"}, "active": false,
	}, adminPrincipal(1)))
	expectStatus(t, rec, http.StatusCreated)
	var p models.PromotionalPackage
	decode(t, rec, &p)
	t.Cleanup(func() { env.DB.Exec(`DELETE FROM promotional_packages WHERE id = $1`, p.ID) })

	contains := func(pkgs []models.PromotionalPackage) bool {
		for _, x := range pkgs {
			if x.ID == p.ID {
				return true
			}
		}
		return false
	}

	rec = serve(env.Public.Packages, request(t, http.MethodGet, "/packages", nil, auth.Principal{}))
	expectStatus(t, rec, http.StatusOK)
	var public []models.PromotionalPackage
	decode(t, rec, &public)
	if contains(public) {
		t.Error("inactive package listed publicly")
	}

	rec = serve(env.Reference.Packages, request(t, http.MethodGet, "/admin/packages", nil, adminPrincipal(1)))
	expectStatus(t, rec, http.StatusOK)
	var all []models.PromotionalPackage
	decode(t, rec, &all)
	if !contains(all) {
		t.Error("inactive package missing from admin list")
	}
}
