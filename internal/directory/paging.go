// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package directory

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
	// MaxPage keeps the offset far from int overflow.
	MaxPage = 100000
)

// Page clamps paging parameters and returns the SQL limit and offset.
func Page(page, perPage int) (limit, offset int) {
	page = max(1, min(page, MaxPage))
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return perPage, (page - 1) * perPage
}
