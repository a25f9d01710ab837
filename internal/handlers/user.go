// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"bizdir/internal/apperr"
	"bizdir/internal/auth"
	"bizdir/internal/directory"
	"bizdir/internal/models"
	"bizdir/internal/respond"
	"bizdir/internal/store"
)

// User serves the signed-in end user's own account and listings. Every
// listing query is scoped to the caller's id.
type User struct {
	users    *store.UserStore
	listings *store.ListingStore
}

// NewUser creates the end-user handler group.
func NewUser(users *store.UserStore, listings *store.ListingStore) *User {
	return &User{users: users, listings: listings}
}

// Me returns the caller's account.
func (h *User) Me(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())
	u, err := h.users.FindByID(r.Context(), p.ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if u == nil {
		respond.Error(w, r, apperr.Unauthorized("account no longer exists"))
		return
	}
	respond.JSON(w, http.StatusOK, u)
}

// Listings returns the caller's listings in every status.
func (h *User) Listings(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())
	status, err := queryStatus(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	f := models.ListingFilter{UserID: p.UserID(), Status: status}
	f.Page, f.PerPage = pageParams(r)

	items, total, err := h.listings.List(r.Context(), f)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Page[models.Listing]{
		Items: items, Total: total, Page: f.Page, PerPage: f.PerPage,
	})
}

// CreateListing adds a pending listing owned by the caller.
func (h *User) CreateListing(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())

	var in directory.ListingInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		respond.Error(w, r, err)
		return
	}

	l, err := h.listings.Create(r.Context(), in.Listing(p.ID))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	slog.Info("listing created", "listing_id", l.ID, "user_id", p.ID)
	respond.JSON(w, http.StatusCreated, l)
}

// UpdateListing applies a partial update to one of the caller's listings.
func (h *User) UpdateListing(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	var patch models.ListingPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := directory.ValidatePatch(&patch, false); err != nil {
		respond.Error(w, r, err)
		return
	}

	l, err := h.listings.UpdateOwned(r.Context(), id, p.ID, &patch)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, l)
}

// DeleteListing removes one of the caller's listings.
func (h *User) DeleteListing(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := h.listings.DeleteOwned(r.Context(), id, p.ID); err != nil {
		respond.Error(w, r, err)
		return
	}
	slog.Info("listing deleted", "listing_id", id, "user_id", p.ID)
	w.WriteHeader(http.StatusNoContent)
}
