// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"bizdir/internal/apperr"
	"bizdir/internal/auth"
	"bizdir/internal/directory"
	"bizdir/internal/metrics"
	"bizdir/internal/models"
	"bizdir/internal/respond"
	"bizdir/internal/store"
)

// Admin groups the moderator endpoints for listings, positions and the
// dashboard. Admin writes are not owner-scoped.
type Admin struct {
	listings    *store.ListingStore
	submissions *store.SubmissionStore
	users       *store.UserStore
}

// NewAdmin creates a new Admin handler group with the given dependencies.
func NewAdmin(listings *store.ListingStore, submissions *store.SubmissionStore, users *store.UserStore) *Admin {
	return &Admin{
		listings:    listings,
		submissions: submissions,
		users:       users,
	}
}

// DashboardStats is the admin overview.
type DashboardStats struct {
	PendingSubmissions int                   `json:"pending_submissions"`
	Listings           map[models.Status]int `json:"listings"`
	Users              int                   `json:"users"`
}

// Dashboard returns moderation counters.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pending, err := a.submissions.CountPending(ctx)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	byStatus, err := a.listings.CountByStatus(ctx)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	users, err := a.users.Count(ctx)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, DashboardStats{
		PendingSubmissions: pending,
		Listings:           byStatus,
		Users:              users,
	})
}

// --- Listings ---

// Listings returns listings in any status.
func (a *Admin) Listings(w http.ResponseWriter, r *http.Request) {
	f, err := listingFilter(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if f.Status, err = queryStatus(r); err != nil {
		respond.Error(w, r, err)
		return
	}
	if f.UserID, err = queryID(r, "user_id"); err != nil {
		respond.Error(w, r, err)
		return
	}

	items, total, err := a.listings.List(r.Context(), f)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Page[models.Listing]{
		Items: items, Total: total, Page: f.Page, PerPage: f.PerPage,
	})
}

// Listing returns any listing by id.
func (a *Admin) Listing(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	l, err := a.listings.FindByID(r.Context(), id)
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

// UpdateListing applies an unrestricted partial update, including the
// moderation fields status and featured.
func (a *Admin) UpdateListing(w http.ResponseWriter, r *http.Request) {
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
	if err := directory.ValidatePatch(&patch, true); err != nil {
		respond.Error(w, r, err)
		return
	}

	l, err := a.listings.Update(r.Context(), id, &patch)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	slog.Info("listing updated by admin", "listing_id", id, "admin_id", auth.FromContext(r.Context()).ID)
	respond.JSON(w, http.StatusOK, l)
}

// DeleteListing removes any listing.
func (a *Admin) DeleteListing(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := a.listings.Delete(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}
	slog.Info("listing deleted by admin", "listing_id", id, "admin_id", auth.FromContext(r.Context()).ID)
	w.WriteHeader(http.StatusNoContent)
}

// --- Positions ---

// AllocatePosition gives a listing a rank within its category.
func (a *Admin) AllocatePosition(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	var in directory.PositionInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		respond.Error(w, r, err)
		return
	}

	l, err := a.listings.AllocatePosition(r.Context(), id, in.Position, in.Expiry(time.Now()))
	if err != nil {
		metrics.PositionAllocations.WithLabelValues(allocationResult(err)).Inc()
		respond.Error(w, r, err)
		return
	}

	metrics.PositionAllocations.WithLabelValues("ok").Inc()
	slog.Info("position allocated", "listing_id", id, "category_id", l.CategoryID,
		"position", in.Position, "expires_at", l.PositionExpiresAt)
	respond.JSON(w, http.StatusOK, l)
}

// allocationResult labels a failed allocation for metrics.
func allocationResult(err error) string {
	if apperr.Is(err, apperr.KindConflict) {
		return "conflict"
	}
	return "error"
}

// ClearPosition removes a listing's rank. Idempotent.
func (a *Admin) ClearPosition(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	l, err := a.listings.ClearPosition(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	slog.Info("position cleared", "listing_id", id)
	respond.JSON(w, http.StatusOK, l)
}

// SweepResult reports the listings whose expired slots were released.
type SweepResult struct {
	ClearedIDs []int64 `json:"cleared_ids"`
	Count      int     `json:"count"`
}

// CleanupPositions releases every expired slot.
func (a *Admin) CleanupPositions(w http.ResponseWriter, r *http.Request) {
	ids, err := a.listings.SweepExpiredPositions(r.Context())
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	metrics.PositionSweepCleared.Add(float64(len(ids)))
	slog.Info("expired positions cleared", "count", len(ids))
	respond.JSON(w, http.StatusOK, SweepResult{ClearedIDs: ids, Count: len(ids)})
}
