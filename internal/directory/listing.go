// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package directory

import (
	"strings"

	"bizdir/internal/apperr"
	"bizdir/internal/models"
	"bizdir/internal/validation"
)

// ListingInput is the self-service create payload.
type ListingInput struct {
	Title         string             `json:"title" validate:"required,notblank,max=255"`
	Description   string             `json:"description" validate:"required,notblank,max=5000"`
	CategoryID    int64              `json:"category_id" validate:"required,gt=0"`
	CountryID     int64              `json:"country_id" validate:"required,gt=0"`
	RegionID      int64              `json:"region_id" validate:"required,gt=0"`
	CityID        *int64             `json:"city_id" validate:"omitempty,gt=0"`
	ContactPerson string             `json:"contact_person" validate:"required,notblank,max=255"`
	Phone         string             `json:"phone" validate:"required,notblank,max=50"`
	Email         string             `json:"email" validate:"required,contact_email,max=255"`
	Website       *string            `json:"website" validate:"omitempty,http_url,max=500"`
	ImageURL      *string            `json:"image_url" validate:"omitempty,http_url,max=500"`
	ListingType   models.ListingType `json:"listing_type" validate:"omitempty,oneof=free promotional"`
	PackageID     *int64             `json:"package_id" validate:"omitempty,gt=0"`
}

// Validate checks the input and returns an apperr validation error.
func (in *ListingInput) Validate() error {
	return validation.Struct(in)
}

// Listing builds a pending listing owned by userID.
func (in *ListingInput) Listing(userID int64) *models.Listing {
	lt := in.ListingType
	if lt == "" {
		lt = models.ListingTypeFree
	}
	return &models.Listing{
		UserID:        &userID,
		Title:         strings.TrimSpace(in.Title),
		Description:   strings.TrimSpace(in.Description),
		CategoryID:    in.CategoryID,
		CountryID:     in.CountryID,
		RegionID:      in.RegionID,
		CityID:        in.CityID,
		ContactPerson: strings.TrimSpace(in.ContactPerson),
		Phone:         strings.TrimSpace(in.Phone),
		Email:         strings.TrimSpace(in.Email),
		Website:       trimPtr(in.Website),
		ImageURL:      trimPtr(in.ImageURL),
		ListingType:   lt,
		PackageID:     in.PackageID,
		Status:        models.StatusPending,
	}
}

// patchRules mirrors ListingInput for partial updates: a present field
// must satisfy the same rules, an absent one is skipped.
type patchRules struct {
	Title         *string             `json:"title" validate:"omitempty,notblank,max=255"`
	Description   *string             `json:"description" validate:"omitempty,notblank,max=5000"`
	CategoryID    *int64              `json:"category_id" validate:"omitempty,gt=0"`
	CountryID     *int64              `json:"country_id" validate:"omitempty,gt=0"`
	RegionID      *int64              `json:"region_id" validate:"omitempty,gt=0"`
	CityID        *int64              `json:"city_id" validate:"omitempty,gt=0"`
	ContactPerson *string             `json:"contact_person" validate:"omitempty,notblank,max=255"`
	Phone         *string             `json:"phone" validate:"omitempty,notblank,max=50"`
	Email         *string             `json:"email" validate:"omitempty,contact_email,max=255"`
	Website       *string             `json:"website" validate:"omitempty,http_url,max=500"`
	ImageURL      *string             `json:"image_url" validate:"omitempty,http_url,max=500"`
	ListingType   *models.ListingType `json:"listing_type" validate:"omitempty,oneof=free promotional"`
	PackageID     *int64              `json:"package_id" validate:"omitempty,gt=0"`
}

// ValidatePatch checks a partial update and trims its text fields the same
// way ListingInput.Listing does on create. Owners may not touch the
// moderation fields (status, featured); admins may.
func ValidatePatch(p *models.ListingPatch, admin bool) error {
	if !admin && (p.Status != nil || p.Featured != nil) {
		return apperr.Invalid("status and featured can only be changed by an admin")
	}
	if p.Status != nil && !p.Status.Valid() {
		return apperr.Invalid("status must be one of: pending approved rejected")
	}
	err := validation.Struct(&patchRules{
		Title:         p.Title,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		CountryID:     p.CountryID,
		RegionID:      p.RegionID,
		CityID:        p.CityID,
		ContactPerson: p.ContactPerson,
		Phone:         p.Phone,
		Email:         p.Email,
		Website:       p.Website,
		ImageURL:      p.ImageURL,
		ListingType:   p.ListingType,
		PackageID:     p.PackageID,
	})
	if err != nil {
		return err
	}
	// Trim after validation so a blank value still fails notblank.
	for _, f := range []*string{p.Title, p.Description, p.ContactPerson, p.Phone, p.Email, p.Website, p.ImageURL} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
	return nil
}

// CheckOwnerMutation enforces the self-service rules for editing or
// deleting a listing: the caller must own it, and approved listings are
// locked. A listing owned by someone else is reported as not found so its
// existence is not revealed.
func CheckOwnerMutation(l *models.Listing, userID int64) error {
	if l == nil || !l.OwnedBy(userID) {
		return apperr.NotFound("listing")
	}
	if l.IsApproved() {
		return apperr.Forbidden("approved listings can only be changed by an admin")
	}
	return nil
}
