// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"bizdir/internal/apperr"
	"bizdir/internal/cache"
	"bizdir/internal/models"
	"bizdir/internal/respond"
	"bizdir/internal/slug"
	"bizdir/internal/store"
	"bizdir/internal/validation"
)

// Reference handles admin CRUD for categories, locations and promotional
// packages. Writes invalidate the cached public responses they affect.
type Reference struct {
	categories *store.CategoryStore
	locations  *store.LocationStore
	packages   *store.PackageStore
	cache      *cache.ResponseCache
}

// NewReference creates the reference data handler group. respCache may be nil.
func NewReference(categories *store.CategoryStore, locations *store.LocationStore, packages *store.PackageStore, respCache *cache.ResponseCache) *Reference {
	return &Reference{
		categories: categories,
		locations:  locations,
		packages:   packages,
		cache:      respCache,
	}
}

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Slug        string `json:"slug" validate:"omitempty,max=255"`
	Description string `json:"description" validate:"max=2000"`
	ParentID    *int64 `json:"parent_id" validate:"omitempty,gt=0"`
	SortOrder   *int   `json:"sort_order" validate:"omitempty,gte=0"`
}

// CountryInput is the create/update payload for a country.
type CountryInput struct {
	Name string `json:"name" validate:"required,notblank,max=255"`
	Slug string `json:"slug" validate:"omitempty,max=255"`
	Code string `json:"code" validate:"required,len=2,alpha"`
}

// RegionInput is the create/update payload for a region.
type RegionInput struct {
	CountryID int64  `json:"country_id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,notblank,max=255"`
	Slug      string `json:"slug" validate:"omitempty,max=255"`
}

// CityInput is the create/update payload for a city.
type CityInput struct {
	CountryID int64  `json:"country_id" validate:"required,gt=0"`
	RegionID  int64  `json:"region_id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,notblank,max=255"`
	Slug      string `json:"slug" validate:"omitempty,max=255"`
}

// PackageInput is the create/update payload for a promotional package.
type PackageInput struct {
	Name         string   `json:"name" validate:"required,notblank,max=255"`
	Slug         string   `json:"slug" validate:"omitempty,max=255"`
	Price        int64    `json:"price" validate:"gte=0"`
	DurationDays int      `json:"duration_days" validate:"required,gt=0"`
	Features     []string `json:"features" validate:"omitempty,dive,notblank,max=255"`
	Active       *bool    `json:"active"`
}

// resolveSlug derives the stored slug from the payload.
func resolveSlug(explicit, name string) (string, error) {
	s := slug.Resolve(explicit, name)
	if s == "" {
		return "", apperr.Invalid("slug could not be derived from name")
	}
	return s, nil
}

// bind decodes and validates a payload and, for updates, parses the id.
// id is 0 when the route has no {id}.
func bind(w http.ResponseWriter, r *http.Request, in any, withID bool) (int64, error) {
	var id int64
	if withID {
		var err error
		if id, err = idParam(r, "id"); err != nil {
			return 0, err
		}
	}
	if err := decodeJSON(w, r, in); err != nil {
		return 0, err
	}
	return id, validation.Struct(in)
}

func (h *Reference) invalidate(ctx context.Context, keys ...string) {
	if h.cache != nil {
		h.cache.Invalidate(ctx, keys...)
	}
}

// --- Categories ---

// CreateCategory adds a category. Without an explicit sort order it is
// appended after its siblings.
func (h *Reference) CreateCategory(w http.ResponseWriter, r *http.Request) {
	h.saveCategory(w, r, false)
}

// UpdateCategory replaces a category.
func (h *Reference) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	h.saveCategory(w, r, true)
}

func (h *Reference) saveCategory(w http.ResponseWriter, r *http.Request, update bool) {
	var in CategoryInput
	id, err := bind(w, r, &in, update)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	s, err := resolveSlug(in.Slug, in.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	c := &models.Category{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Slug:        s,
		Description: strings.TrimSpace(in.Description),
		ParentID:    in.ParentID,
	}
	if in.SortOrder != nil {
		c.SortOrder = *in.SortOrder
	} else if c.SortOrder, err = h.categories.NextSortOrder(r.Context(), in.ParentID); err != nil {
		respond.Error(w, r, err)
		return
	}

	var out *models.Category
	status := http.StatusCreated
	if update {
		out, err = h.categories.Update(r.Context(), c)
		status = http.StatusOK
	} else {
		out, err = h.categories.Create(r.Context(), c)
	}
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	h.invalidate(r.Context(), cache.KeyCategoryTree)
	slog.Info("category saved", "category_id", out.ID, "slug", out.Slug)
	respond.JSON(w, status, out)
}

// DeleteCategory removes a category that no listing or submission uses.
func (h *Reference) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.categories.Delete, cache.KeyCategoryTree)
}

// --- Locations ---

// CreateCountry adds a country.
func (h *Reference) CreateCountry(w http.ResponseWriter, r *http.Request) {
	h.saveCountry(w, r, false)
}

// UpdateCountry replaces a country.
func (h *Reference) UpdateCountry(w http.ResponseWriter, r *http.Request) {
	h.saveCountry(w, r, true)
}

func (h *Reference) saveCountry(w http.ResponseWriter, r *http.Request, update bool) {
	var in CountryInput
	id, err := bind(w, r, &in, update)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	s, err := resolveSlug(in.Slug, in.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	c := &models.Country{ID: id, Name: strings.TrimSpace(in.Name), Slug: s, Code: strings.ToUpper(in.Code)}
	if update {
		c, err = h.locations.UpdateCountry(r.Context(), c)
	} else {
		c, err = h.locations.CreateCountry(r.Context(), c)
	}
	writeSaved(w, r, c, err, update)
}

// DeleteCountry removes an unreferenced country.
func (h *Reference) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.locations.DeleteCountry)
}

// CreateRegion adds a region.
func (h *Reference) CreateRegion(w http.ResponseWriter, r *http.Request) {
	h.saveRegion(w, r, false)
}

// UpdateRegion replaces a region.
func (h *Reference) UpdateRegion(w http.ResponseWriter, r *http.Request) {
	h.saveRegion(w, r, true)
}

func (h *Reference) saveRegion(w http.ResponseWriter, r *http.Request, update bool) {
	var in RegionInput
	id, err := bind(w, r, &in, update)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	s, err := resolveSlug(in.Slug, in.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	reg := &models.Region{ID: id, CountryID: in.CountryID, Name: strings.TrimSpace(in.Name), Slug: s}
	if update {
		reg, err = h.locations.UpdateRegion(r.Context(), reg)
	} else {
		reg, err = h.locations.CreateRegion(r.Context(), reg)
	}
	writeSaved(w, r, reg, err, update)
}

// DeleteRegion removes an unreferenced region.
func (h *Reference) DeleteRegion(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.locations.DeleteRegion)
}

// CreateCity adds a city.
func (h *Reference) CreateCity(w http.ResponseWriter, r *http.Request) {
	h.saveCity(w, r, false)
}

// UpdateCity replaces a city.
func (h *Reference) UpdateCity(w http.ResponseWriter, r *http.Request) {
	h.saveCity(w, r, true)
}

func (h *Reference) saveCity(w http.ResponseWriter, r *http.Request, update bool) {
	var in CityInput
	id, err := bind(w, r, &in, update)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	s, err := resolveSlug(in.Slug, in.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	c := &models.City{ID: id, CountryID: in.CountryID, RegionID: in.RegionID, Name: strings.TrimSpace(in.Name), Slug: s}
	if update {
		c, err = h.locations.UpdateCity(r.Context(), c)
	} else {
		c, err = h.locations.CreateCity(r.Context(), c)
	}
	writeSaved(w, r, c, err, update)
}

// DeleteCity removes an unreferenced city.
func (h *Reference) DeleteCity(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.locations.DeleteCity)
}

// --- Packages ---

// Packages lists every package, inactive ones included.
func (h *Reference) Packages(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.packages.List(r.Context(), false)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, pkgs)
}

// CreatePackage adds a promotional package.
func (h *Reference) CreatePackage(w http.ResponseWriter, r *http.Request) {
	h.savePackage(w, r, false)
}

// UpdatePackage replaces a promotional package.
func (h *Reference) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	h.savePackage(w, r, true)
}

func (h *Reference) savePackage(w http.ResponseWriter, r *http.Request, update bool) {
	var in PackageInput
	id, err := bind(w, r, &in, update)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	s, err := resolveSlug(in.Slug, in.Name)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	features := make([]string, 0, len(in.Features))
	for _, f := range in.Features {
		features = append(features, strings.TrimSpace(f))
	}
	p := &models.PromotionalPackage{
		ID:           id,
		Name:         strings.TrimSpace(in.Name),
		Slug:         s,
		Price:        in.Price,
		DurationDays: in.DurationDays,
		Features:     features,
		Active:       in.Active == nil || *in.Active,
	}

	if update {
		p, err = h.packages.Update(r.Context(), p)
	} else {
		p, err = h.packages.Create(r.Context(), p)
	}
	if err == nil {
		h.invalidate(r.Context(), cache.KeyActivePackages)
	}
	writeSaved(w, r, p, err, update)
}

// DeletePackage removes an unreferenced package.
func (h *Reference) DeletePackage(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, h.packages.Delete, cache.KeyActivePackages)
}

// remove runs del for the {id} parameter and invalidates keys on success.
func (h *Reference) remove(w http.ResponseWriter, r *http.Request, del func(context.Context, int64) error, keys ...string) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := del(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}
	h.invalidate(r.Context(), keys...)
	slog.Info("reference row deleted", "path", r.URL.Path)
	w.WriteHeader(http.StatusNoContent)
}

// writeSaved responds with the stored row: 201 on create, 200 on update.
func writeSaved(w http.ResponseWriter, r *http.Request, v any, err error, update bool) {
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	status := http.StatusCreated
	if update {
		status = http.StatusOK
	}
	respond.JSON(w, status, v)
}
