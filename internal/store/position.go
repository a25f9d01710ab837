// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bizdir/internal/apperr"
	"bizdir/internal/directory"
	"bizdir/internal/models"
)

// AllocatePosition gives listing id the rank position within its category,
// lapsing at expiresAt (nil for a permanent slot). Only approved listings
// are ranked; a listing leaving approved status drops its slot in update. A slot held by another
// listing whose expiry has passed is reclaimed first. A slot held by another
// live listing yields a conflict naming the holder; nothing is displaced.
//
// The partial unique index on (category_id, position) is the authority: a
// concurrent allocation that slips past the pre-check fails on insert and
// is reported as the same conflict.
func (s *ListingStore) AllocatePosition(ctx context.Context, id int64, position int, expiresAt *time.Time) (*models.Listing, error) {
	var out *models.Listing
	var categoryID int64

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		l, err := findListing(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if l == nil {
			return apperr.NotFound("listing")
		}
		if !l.IsApproved() {
			return apperr.Invalid("only approved listings can hold a position")
		}
		categoryID = l.CategoryID

		if _, err := tx.ExecContext(ctx, `
			UPDATE listings SET position = NULL, position_expires_at = NULL, updated_at = NOW()
			WHERE category_id = $1 AND position = $2 AND id <> $3
			  AND position_expires_at IS NOT NULL AND position_expires_at <= NOW()
		`, categoryID, position, id); err != nil {
			return fmt.Errorf("reclaim expired position: %w", err)
		}

		holder, err := positionHolder(ctx, tx, categoryID, position, id)
		if err != nil {
			return err
		}
		if holder != 0 {
			return directory.SlotTaken(position, holder)
		}

		row := tx.QueryRowContext(ctx, `
			UPDATE listings SET position = $1, position_expires_at = $2, updated_at = NOW()
			WHERE id = $3
			RETURNING `+listingColumns, position, expiresAt, id)
		out, err = scanListing(row)
		if err != nil {
			return err
		}
		return nil
	})

	if IsUniqueViolation(err) {
		// The transaction is gone; re-read the winner outside it.
		holder, herr := positionHolder(ctx, s.db, categoryID, position, id)
		if herr != nil {
			return nil, herr
		}
		return nil, directory.SlotTaken(position, holder)
	}
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, fmt.Errorf("allocate position: %w", err)
	}
	return out, nil
}

// positionHolder returns the id of the listing other than exclude holding
// (categoryID, position), or 0 when the slot is free.
func positionHolder(ctx context.Context, q querier, categoryID int64, position int, exclude int64) (int64, error) {
	var holder int64
	err := q.QueryRowContext(ctx, `
		SELECT id FROM listings WHERE category_id = $1 AND position = $2 AND id <> $3
	`, categoryID, position, exclude).Scan(&holder)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find position holder: %w", err)
	}
	return holder, nil
}

// ClearPosition removes the slot of listing id. Clearing an unpositioned
// listing is a no-op that still returns the listing.
func (s *ListingStore) ClearPosition(ctx context.Context, id int64) (*models.Listing, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE listings SET position = NULL, position_expires_at = NULL, updated_at = NOW()
		WHERE id = $1
		RETURNING `+listingColumns, id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("listing")
	}
	if err != nil {
		return nil, fmt.Errorf("clear position: %w", err)
	}
	return l, nil
}

// SweepExpiredPositions clears every slot whose expiry has passed and
// returns the affected listing ids. It is a single statement, so it
// serializes against concurrent allocations through row locks and is safe
// to run repeatedly.
func (s *ListingStore) SweepExpiredPositions(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		UPDATE listings SET position = NULL, position_expires_at = NULL, updated_at = NOW()
		WHERE position_expires_at IS NOT NULL AND position_expires_at <= NOW()
		RETURNING id
	`)
	if err != nil {
		return nil, fmt.Errorf("sweep expired positions: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan swept id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
