// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package directory holds the moderation rules of the business directory:
// input validation, the submission-to-listing mapping, owner edit locks and
// position expiry arithmetic. It performs no I/O; the store package applies
// these rules inside its transactions.
package directory

import (
	"strings"
	"time"

	"bizdir/internal/apperr"
	"bizdir/internal/models"
	"bizdir/internal/validation"
)

// Field limits shared by submissions and listings.
const (
	MaxTitleLen       = 255
	MaxDescriptionLen = 5000
	MaxMediaURLs      = 10
)

// SubmissionInput is the public intake payload.
type SubmissionInput struct {
	BusinessName  string             `json:"business_name" validate:"required,notblank,max=255"`
	Description   string             `json:"description" validate:"required,notblank,max=5000"`
	CategoryID    int64              `json:"category_id" validate:"required,gt=0"`
	CountryID     int64              `json:"country_id" validate:"required,gt=0"`
	RegionID      int64              `json:"region_id" validate:"required,gt=0"`
	CityID        *int64             `json:"city_id" validate:"omitempty,gt=0"`
	ContactPerson string             `json:"contact_person" validate:"required,notblank,max=255"`
	Phone         string             `json:"phone" validate:"required,notblank,max=50"`
	Email         string             `json:"email" validate:"required,contact_email,max=255"`
	Website       *string            `json:"website" validate:"omitempty,http_url,max=500"`
	MediaURLs     []string           `json:"media_urls" validate:"omitempty,max=10,dive,http_url,max=500"`
	ListingType   models.ListingType `json:"listing_type" validate:"required,oneof=free promotional"`
	PackageID     *int64             `json:"package_id" validate:"omitempty,gt=0"`
}

// Validate checks the input and returns an apperr validation error.
func (in *SubmissionInput) Validate() error {
	return validation.Struct(in)
}

// Submission builds a pending submission from validated input. userID is
// the submitting end user, or nil for anonymous intake.
func (in *SubmissionInput) Submission(userID *int64) *models.Submission {
	media := in.MediaURLs
	if media == nil {
		media = []string{}
	}
	return &models.Submission{
		UserID:        userID,
		BusinessName:  strings.TrimSpace(in.BusinessName),
		Description:   strings.TrimSpace(in.Description),
		CategoryID:    in.CategoryID,
		CountryID:     in.CountryID,
		RegionID:      in.RegionID,
		CityID:        in.CityID,
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		Phone:         strings.TrimSpace(in.Phone),
		Email:         strings.TrimSpace(in.Email),
		Website:       trimPtr(in.Website),
		MediaURLs:     media,
		ListingType:   in.ListingType,
		PackageID:     in.PackageID,
		Status:        models.StatusPending,
	}
}

// ReviewInput is the admin decision payload.
type ReviewInput struct {
	Status models.Status `json:"status"`
}

// ParseDecision accepts only the two terminal statuses.
func ParseDecision(s models.Status) (models.Status, error) {
	if !s.IsTerminal() {
		return "", apperr.Invalid("status must be %q or %q", models.StatusApproved, models.StatusRejected)
	}
	return s, nil
}

// CheckReviewable rejects a second decision on a submission. A terminal
// submission is never re-processed, so approval cannot create a second
// listing.
func CheckReviewable(sub *models.Submission) error {
	if !sub.IsPending() {
		return apperr.Conflict("submission already reviewed").
			WithDetail("status", string(sub.Status))
	}
	return nil
}

// ListingFromSubmission maps an approved submission onto the listing it
// materializes. pkg is the referenced promotional package, or nil.
func ListingFromSubmission(sub *models.Submission, pkg *models.PromotionalPackage, now time.Time) *models.Listing {
	l := &models.Listing{
		UserID:        sub.UserID,
		SubmissionID:  &sub.ID,
		Title:         sub.BusinessName,
		Description:   sub.Description,
		CategoryID:    sub.CategoryID,
		CountryID:     sub.CountryID,
		RegionID:      sub.RegionID,
		CityID:        sub.CityID,
		ContactPerson: sub.ContactPerson,
		Phone:         sub.Phone,
		Email:         sub.Email,
		Website:       sub.Website,
		ListingType:   sub.ListingType,
		PackageID:     sub.PackageID,
		Status:        models.StatusApproved,
		Featured:      false,
		Views:         0,
		ExpiresAt:     PromotionExpiry(sub.ListingType, pkg, now),
	}
	if len(sub.MediaURLs) > 0 {
		img := sub.MediaURLs[0]
		l.ImageURL = &img
	}
	return l
}

// PromotionExpiry returns now plus the package duration for promotional
// listings that reference a package, and nil otherwise.
func PromotionExpiry(t models.ListingType, pkg *models.PromotionalPackage, now time.Time) *time.Time {
	if t != models.ListingTypePromotional || pkg == nil {
		return nil
	}
	exp := now.Add(pkg.Duration())
	return &exp
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
