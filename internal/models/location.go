// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Country is the top of the location hierarchy.
type Country struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Code string `json:"code"` // ISO 3166-1 alpha-2
}

// Region belongs to a country.
type Region struct {
	ID        int64  `json:"id"`
	CountryID int64  `json:"country_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
}

// City belongs to a region and, redundantly, its country.
type City struct {
	ID        int64  `json:"id"`
	CountryID int64  `json:"country_id"`
	RegionID  int64  `json:"region_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
}
