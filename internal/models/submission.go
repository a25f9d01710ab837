// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Submission is a publicly proposed listing awaiting moderation. It moves
// from pending to exactly one terminal status and is never deleted.
type Submission struct {
	ID            int64       `json:"id"`
	UserID        *int64      `json:"user_id,omitempty"`
	BusinessName  string      `json:"business_name"`
	Description   string      `json:"description"`
	CategoryID    int64       `json:"category_id"`
	CountryID     int64       `json:"country_id"`
	RegionID      int64       `json:"region_id"`
	CityID        *int64      `json:"city_id,omitempty"`
	ContactPerson string      `json:"contact_person"`
	Phone         string      `json:"phone"`
	Email         string      `json:"email"`
	Website       *string     `json:"website,omitempty"`
	MediaURLs     []string    `json:"media_urls"`
	ListingType   ListingType `json:"listing_type"`
	PackageID     *int64      `json:"package_id,omitempty"`
	Status        Status      `json:"status"`
	SubmittedAt   time.Time   `json:"submitted_at"`
	ReviewedAt    *time.Time  `json:"reviewed_at,omitempty"`
	ReviewedBy    *int64      `json:"reviewed_by,omitempty"`
	ListingID     *int64      `json:"listing_id,omitempty"`
}

// IsPending returns true while the submission awaits a decision.
func (s *Submission) IsPending() bool {
	return s.Status == StatusPending
}

// SubmissionFilter enumerates the admin submission list parameters.
type SubmissionFilter struct {
	Status  *Status
	Page    int
	PerPage int
}
