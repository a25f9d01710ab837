// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PromotionalPackage is a priced, time-boxed feature bundle. Price is in
// minor currency units (cents).
type PromotionalPackage struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Price        int64     `json:"price"`
	DurationDays int       `json:"duration_days"`
	Features     []string  `json:"features"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Duration returns the package length as a time.Duration of whole days.
func (p *PromotionalPackage) Duration() time.Duration {
	return time.Duration(p.DurationDays) * 24 * time.Hour
}
