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
	"bizdir/internal/metrics"
	"bizdir/internal/models"
	"bizdir/internal/respond"
	"bizdir/internal/store"
)

// Submissions handles public intake and admin moderation of submissions.
type Submissions struct {
	store *store.SubmissionStore
}

// NewSubmissions creates the submissions handler group.
func NewSubmissions(s *store.SubmissionStore) *Submissions {
	return &Submissions{store: s}
}

// Create accepts a new submission. When an end user is signed in the
// submission is attributed to them.
func (h *Submissions) Create(w http.ResponseWriter, r *http.Request) {
	var in directory.SubmissionInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := in.Validate(); err != nil {
		respond.Error(w, r, err)
		return
	}

	p := auth.FromContext(r.Context())
	sub, err := h.store.Create(r.Context(), in.Submission(p.UserID()))
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	metrics.SubmissionsCreated.Inc()
	slog.Info("submission received", "submission_id", sub.ID, "user_id", sub.UserID)
	respond.JSON(w, http.StatusCreated, sub)
}

// List returns one page of submissions for moderation.
func (h *Submissions) List(w http.ResponseWriter, r *http.Request) {
	status, err := queryStatus(r)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	f := models.SubmissionFilter{Status: status}
	f.Page, f.PerPage = pageParams(r)

	items, total, err := h.store.List(r.Context(), f)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Page[models.Submission]{
		Items: items, Total: total, Page: f.Page, PerPage: f.PerPage,
	})
}

// Get returns a single submission.
func (h *Submissions) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	sub, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if sub == nil {
		respond.Error(w, r, apperr.NotFound("submission"))
		return
	}
	respond.JSON(w, http.StatusOK, sub)
}

// Review records the admin decision on a pending submission. Approval
// materializes the listing in the same transaction.
func (h *Submissions) Review(w http.ResponseWriter, r *http.Request) {
	admin := auth.FromContext(r.Context())

	var in directory.ReviewInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	status, err := directory.ParseDecision(in.Status)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	res, err := h.store.Review(r.Context(), id, status, admin.ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	metrics.SubmissionsReviewed.WithLabelValues(string(status)).Inc()
	attrs := []any{"submission_id", id, "status", status, "admin_id", admin.ID}
	if res.Listing != nil {
		attrs = append(attrs, "listing_id", res.Listing.ID)
	}
	slog.Info("submission reviewed", attrs...)
	respond.JSON(w, http.StatusOK, res)
}
