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

// SubmissionStore handles the moderation queue.
type SubmissionStore struct {
	db *sql.DB
}

// NewSubmissionStore creates a new SubmissionStore.
func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

const submissionColumns = `id, user_id, business_name, description, category_id, country_id,
	region_id, city_id, contact_person, phone, email, website, media_urls, listing_type,
	package_id, status, submitted_at, reviewed_at, reviewed_by, listing_id`

func scanSubmission(row scanner) (*models.Submission, error) {
	var s models.Submission
	err := row.Scan(
		&s.ID, &s.UserID, &s.BusinessName, &s.Description, &s.CategoryID, &s.CountryID,
		&s.RegionID, &s.CityID, &s.ContactPerson, &s.Phone, &s.Email, &s.Website,
		(*jsonStrings)(&s.MediaURLs), &s.ListingType, &s.PackageID, &s.Status,
		&s.SubmittedAt, &s.ReviewedAt, &s.ReviewedBy, &s.ListingID,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a pending submission. It has no other side effects.
func (s *SubmissionStore) Create(ctx context.Context, sub *models.Submission) (*models.Submission, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO submissions (user_id, business_name, description, category_id, country_id,
			region_id, city_id, contact_person, phone, email, website, media_urls,
			listing_type, package_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+submissionColumns,
		sub.UserID, sub.BusinessName, sub.Description, sub.CategoryID, sub.CountryID,
		sub.RegionID, sub.CityID, sub.ContactPerson, sub.Phone, sub.Email, sub.Website,
		jsonStrings(sub.MediaURLs), sub.ListingType, sub.PackageID,
	)
	out, err := scanSubmission(row)
	if err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	return out, nil
}

// List returns one page of submissions, newest first, and the total count.
func (s *SubmissionStore) List(ctx context.Context, f models.SubmissionFilter) ([]models.Submission, int, error) {
	w := &where{}
	if f.Status != nil {
		w.add("status = ?", *f.Status)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	limit, offset := directory.Page(f.Page, f.PerPage)
	q := `SELECT ` + submissionColumns + ` FROM submissions` + w.sql() +
		` ORDER BY submitted_at DESC, id DESC LIMIT ` + w.next(limit) + ` OFFSET ` + w.next(offset)

	rows, err := s.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	items := []models.Submission{}
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan submission: %w", err)
		}
		items = append(items, *sub)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a submission by ID. Returns nil if not found.
func (s *SubmissionStore) FindByID(ctx context.Context, id int64) (*models.Submission, error) {
	sub, err := scanSubmission(s.db.QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find submission by id: %w", err)
	}
	return sub, nil
}

// CountPending returns the size of the moderation queue.
func (s *SubmissionStore) CountPending(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM submissions WHERE status = 'pending'`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pending submissions: %w", err)
	}
	return n, nil
}

// ReviewResult is the outcome of a moderation decision. Listing is set
// only when the submission was approved.
type ReviewResult struct {
	Submission *models.Submission `json:"submission"`
	Listing    *models.Listing    `json:"listing,omitempty"`
}

// Review records an admin decision on a pending submission. Approval
// creates the listing in the same transaction; if anything fails the
// submission stays pending. A submission that was already reviewed is
// rejected with a conflict.
func (s *SubmissionStore) Review(ctx context.Context, id int64, status models.Status, adminID int64) (*ReviewResult, error) {
	status, err := directory.ParseDecision(status)
	if err != nil {
		return nil, err
	}

	res := &ReviewResult{}
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		sub, err := scanSubmission(tx.QueryRowContext(ctx,
			`SELECT `+submissionColumns+` FROM submissions WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("submission")
		}
		if err != nil {
			return fmt.Errorf("lock submission: %w", err)
		}
		if err := directory.CheckReviewable(sub); err != nil {
			return err
		}

		now := time.Now().UTC()
		var listingID *int64

		if status == models.StatusApproved {
			var pkg *models.PromotionalPackage
			if sub.PackageID != nil {
				if pkg, err = findPackage(ctx, tx, *sub.PackageID); err != nil {
					return err
				}
			}
			l, err := insertListing(ctx, tx, directory.ListingFromSubmission(sub, pkg, now))
			if err != nil {
				return err
			}
			res.Listing = l
			listingID = &l.ID
		}

		sub, err = scanSubmission(tx.QueryRowContext(ctx, `
			UPDATE submissions SET status = $1, reviewed_at = $2, reviewed_by = $3, listing_id = $4
			WHERE id = $5
			RETURNING `+submissionColumns,
			status, now, adminID, listingID, id,
		))
		if err != nil {
			return fmt.Errorf("update submission status: %w", err)
		}
		res.Submission = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
