// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Status is the moderation state shared by submissions and listings.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the known moderation states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal returns true for approved and rejected.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ListingType tags a listing as free or paid-for promotion.
type ListingType string

const (
	ListingTypeFree        ListingType = "free"
	ListingTypePromotional ListingType = "promotional"
)

// Listing is a directory entry. It is created either directly by an end
// user (status pending) or by approving a Submission (status approved).
type Listing struct {
	ID                int64       `json:"id"`
	UserID            *int64      `json:"user_id,omitempty"`
	SubmissionID      *int64      `json:"submission_id,omitempty"`
	Title             string      `json:"title"`
	Description       string      `json:"description"`
	CategoryID        int64       `json:"category_id"`
	CountryID         int64       `json:"country_id"`
	RegionID          int64       `json:"region_id"`
	CityID            *int64      `json:"city_id,omitempty"`
	ContactPerson     string      `json:"contact_person"`
	Phone             string      `json:"phone"`
	Email             string      `json:"email"`
	Website           *string     `json:"website,omitempty"`
	ImageURL          *string     `json:"image_url,omitempty"`
	ListingType       ListingType `json:"listing_type"`
	PackageID         *int64      `json:"package_id,omitempty"`
	Status            Status      `json:"status"`
	Featured          bool        `json:"featured"`
	Views             int64       `json:"views"`
	Position          *int        `json:"position,omitempty"`
	PositionExpiresAt *time.Time  `json:"position_expires_at,omitempty"`
	ExpiresAt         *time.Time  `json:"expires_at,omitempty"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// IsApproved returns true if the listing has passed moderation.
func (l *Listing) IsApproved() bool {
	return l.Status == StatusApproved
}

// OwnedBy reports whether the listing belongs to the given end user.
// Listings without an owner belong to nobody.
func (l *Listing) OwnedBy(userID int64) bool {
	return l.UserID != nil && *l.UserID == userID
}

// ListingFilter enumerates every supported listing query parameter.
// Nil pointers mean "no filter".
type ListingFilter struct {
	Status     *Status
	CategoryID *int64
	CountryID  *int64
	RegionID   *int64
	CityID     *int64
	UserID     *int64
	Featured   *bool
	Search     string
	Page       int
	PerPage    int
}

// ListingPatch carries a partial update. Only non-nil fields are applied.
type ListingPatch struct {
	Title         *string      `json:"title"`
	Description   *string      `json:"description"`
	CategoryID    *int64       `json:"category_id"`
	CountryID     *int64       `json:"country_id"`
	RegionID      *int64       `json:"region_id"`
	CityID        *int64       `json:"city_id"`
	ContactPerson *string      `json:"contact_person"`
	Phone         *string      `json:"phone"`
	Email         *string      `json:"email"`
	Website       *string      `json:"website"`
	ImageURL      *string      `json:"image_url"`
	ListingType   *ListingType `json:"listing_type"`
	PackageID     *int64       `json:"package_id"`

	// Admin-only fields. The self-service handlers never populate them.
	Featured *bool   `json:"featured"`
	Status   *Status `json:"status"`
}

// Apply copies the non-nil patch fields onto l.
func (p *ListingPatch) Apply(l *Listing) {
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.CategoryID != nil {
		l.CategoryID = *p.CategoryID
	}
	if p.CountryID != nil {
		l.CountryID = *p.CountryID
	}
	if p.RegionID != nil {
		l.RegionID = *p.RegionID
	}
	if p.CityID != nil {
		l.CityID = p.CityID
	}
	if p.ContactPerson != nil {
		l.ContactPerson = *p.ContactPerson
	}
	if p.Phone != nil {
		l.Phone = *p.Phone
	}
	if p.Email != nil {
		l.Email = *p.Email
	}
	if p.Website != nil {
		l.Website = p.Website
	}
	if p.ImageURL != nil {
		l.ImageURL = p.ImageURL
	}
	if p.ListingType != nil {
		l.ListingType = *p.ListingType
	}
	if p.PackageID != nil {
		l.PackageID = p.PackageID
	}
	if p.Featured != nil {
		l.Featured = *p.Featured
	}
	if p.Status != nil {
		l.Status = *p.Status
	}
}
