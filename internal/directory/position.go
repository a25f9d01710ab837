// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package directory

import (
	"math"
	"time"

	"bizdir/internal/apperr"
)

// Allocation bounds. MaxPosition matches the INT column; MaxPositionHours
// keeps now+duration well inside time.Duration.
const (
	MaxPosition      = math.MaxInt32
	MaxPositionHours = 10 * 365 * 24
)

// PositionInput is the admin slot allocation payload.
type PositionInput struct {
	Position      int  `json:"position"`
	DurationHours *int `json:"duration_hours"`
}

// Validate bounds the rank to [1, MaxPosition] and the duration to
// [0, MaxPositionHours].
func (in *PositionInput) Validate() error {
	if in.Position < 1 {
		return apperr.Invalid("position must be at least 1")
	}
	if in.Position > MaxPosition {
		return apperr.Invalid("position must be at most %d", MaxPosition)
	}
	if in.DurationHours != nil {
		switch h := *in.DurationHours; {
		case h < 0:
			return apperr.Invalid("duration_hours must not be negative")
		case h > MaxPositionHours:
			return apperr.Invalid("duration_hours must be at most %d", MaxPositionHours)
		}
	}
	return nil
}

// Expiry returns when the slot lapses, or nil for a permanent slot.
func (in *PositionInput) Expiry(now time.Time) *time.Time {
	if in.DurationHours == nil {
		return nil
	}
	return PositionExpiry(now, *in.DurationHours)
}

// PositionExpiry returns now plus hours, or nil when hours is not positive.
// Hours above MaxPositionHours are clamped.
func PositionExpiry(now time.Time, hours int) *time.Time {
	if hours <= 0 {
		return nil
	}
	hours = min(hours, MaxPositionHours)
	exp := now.Add(time.Duration(hours) * time.Hour)
	return &exp
}

// SlotTaken builds the conflict returned when another listing holds the
// requested position in the same category.
func SlotTaken(position int, holderID int64) *apperr.Error {
	return apperr.Conflict("position %d is already held by listing %d", position, holderID).
		WithDetail("listing_id", holderID).
		WithDetail("position", position)
}
