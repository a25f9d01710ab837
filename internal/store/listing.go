// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"bizdir/internal/apperr"
	"bizdir/internal/directory"
	"bizdir/internal/models"
)

// ListingStore handles listing persistence, including the owner-scoped
// mutations and position slots.
type ListingStore struct {
	db *sql.DB
}

// NewListingStore creates a new ListingStore with the given database connection.
func NewListingStore(db *sql.DB) *ListingStore {
	return &ListingStore{db: db}
}

const listingColumns = `id, user_id, submission_id, title, description, category_id,
	country_id, region_id, city_id, contact_person, phone, email, website, image_url,
	listing_type, package_id, status, featured, views, position, position_expires_at,
	expires_at, created_at, updated_at`

func scanListing(row scanner) (*models.Listing, error) {
	var l models.Listing
	err := row.Scan(
		&l.ID, &l.UserID, &l.SubmissionID, &l.Title, &l.Description, &l.CategoryID,
		&l.CountryID, &l.RegionID, &l.CityID, &l.ContactPerson, &l.Phone, &l.Email,
		&l.Website, &l.ImageURL, &l.ListingType, &l.PackageID, &l.Status, &l.Featured,
		&l.Views, &l.Position, &l.PositionExpiresAt, &l.ExpiresAt, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func filterWhere(f models.ListingFilter) *where {
	w := &where{}
	if f.Status != nil {
		w.add("status = ?", *f.Status)
	}
	if f.CategoryID != nil {
		w.add("category_id = ?", *f.CategoryID)
	}
	if f.CountryID != nil {
		w.add("country_id = ?", *f.CountryID)
	}
	if f.RegionID != nil {
		w.add("region_id = ?", *f.RegionID)
	}
	if f.CityID != nil {
		w.add("city_id = ?", *f.CityID)
	}
	if f.UserID != nil {
		w.add("user_id = ?", *f.UserID)
	}
	if f.Featured != nil {
		w.add("featured = ?", *f.Featured)
	}
	if f.Search != "" {
		w.add("(title ILIKE ? OR description ILIKE ?)", likePattern(f.Search))
	}
	return w
}

// List returns one page of listings matching f and the total match count.
// Positioned listings come first by rank, then featured, then newest.
func (s *ListingStore) List(ctx context.Context, f models.ListingFilter) ([]models.Listing, int, error) {
	w := filterWhere(f)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`+w.sql(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count listings: %w", err)
	}

	limit, offset := directory.Page(f.Page, f.PerPage)
	q := `SELECT ` + listingColumns + ` FROM listings` + w.sql() +
		` ORDER BY position ASC NULLS LAST, featured DESC, created_at DESC, id DESC` +
		` LIMIT ` + w.next(limit) + ` OFFSET ` + w.next(offset)

	rows, err := s.db.QueryContext(ctx, q, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list listings: %w", err)
	}
	defer rows.Close()

	items := []models.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan listing: %w", err)
		}
		items = append(items, *l)
	}
	return items, total, rows.Err()
}

// FindByID retrieves a listing by ID. Returns nil if not found.
func (s *ListingStore) FindByID(ctx context.Context, id int64) (*models.Listing, error) {
	return findListing(ctx, s.db, id, false)
}

// findListing reads a listing, optionally locking the row for the rest of
// the transaction.
func findListing(ctx context.Context, q querier, id int64, forUpdate bool) (*models.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	l, err := scanListing(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find listing by id: %w", err)
	}
	return l, nil
}

// FindApproved returns a publicly visible listing and counts the view.
// Returns nil when the listing does not exist or is not approved.
func (s *ListingStore) FindApproved(ctx context.Context, id int64) (*models.Listing, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE listings SET views = views + 1
		WHERE id = $1 AND status = 'approved'
		RETURNING `+listingColumns, id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find approved listing: %w", err)
	}
	return l, nil
}

// Create inserts a listing and returns it.
func (s *ListingStore) Create(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	out, err := insertListing(ctx, s.db, l)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return nil, apperr.Invalid("listing references a category, location or package that does not exist")
		}
		return nil, err
	}
	return out, nil
}

func insertListing(ctx context.Context, q querier, l *models.Listing) (*models.Listing, error) {
	row := q.QueryRowContext(ctx, `
		INSERT INTO listings (user_id, submission_id, title, description, category_id,
			country_id, region_id, city_id, contact_person, phone, email, website, image_url,
			listing_type, package_id, status, featured, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING `+listingColumns,
		l.UserID, l.SubmissionID, l.Title, l.Description, l.CategoryID,
		l.CountryID, l.RegionID, l.CityID, l.ContactPerson, l.Phone, l.Email, l.Website, l.ImageURL,
		l.ListingType, l.PackageID, l.Status, l.Featured, l.ExpiresAt,
	)
	out, err := scanListing(row)
	if err != nil {
		return nil, fmt.Errorf("insert listing: %w", err)
	}
	return out, nil
}

// UpdateOwned applies patch to a listing owned by userID. The ownership and
// approval lock are checked against the row locked inside the transaction.
func (s *ListingStore) UpdateOwned(ctx context.Context, id, userID int64, patch *models.ListingPatch) (*models.Listing, error) {
	return s.update(ctx, id, patch, func(l *models.Listing) error {
		return directory.CheckOwnerMutation(l, userID)
	})
}

// Update applies patch to any listing. Used by admins.
func (s *ListingStore) Update(ctx context.Context, id int64, patch *models.ListingPatch) (*models.Listing, error) {
	return s.update(ctx, id, patch, func(l *models.Listing) error {
		if l == nil {
			return apperr.NotFound("listing")
		}
		return nil
	})
}

func (s *ListingStore) update(ctx context.Context, id int64, patch *models.ListingPatch, check func(*models.Listing) error) (*models.Listing, error) {
	var out *models.Listing
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		l, err := findListing(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := check(l); err != nil {
			return err
		}

		patch.Apply(l)

		row := tx.QueryRowContext(ctx, `
			UPDATE listings SET
				title = $1, description = $2, category_id = $3, country_id = $4,
				region_id = $5, city_id = $6, contact_person = $7, phone = $8,
				email = $9, website = $10, image_url = $11, listing_type = $12,
				package_id = $13, featured = $14, status = $15,
				position = CASE WHEN $15 = 'approved' THEN position END,
				position_expires_at = CASE WHEN $15 = 'approved' THEN position_expires_at END,
				updated_at = NOW()
			WHERE id = $16
			RETURNING `+listingColumns,
			l.Title, l.Description, l.CategoryID, l.CountryID,
			l.RegionID, l.CityID, l.ContactPerson, l.Phone,
			l.Email, l.Website, l.ImageURL, l.ListingType,
			l.PackageID, l.Featured, l.Status, l.ID,
		)
		out, err = scanListing(row)
		switch {
		case IsUniqueViolation(err):
			// Moving a positioned listing into a category where its rank is taken.
			return apperr.Conflict("listing position is already taken in the target category")
		case IsForeignKeyViolation(err):
			return apperr.Invalid("listing references a category, location or package that does not exist")
		case err != nil:
			return fmt.Errorf("update listing: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteOwned removes a listing owned by userID unless it is approved.
func (s *ListingStore) DeleteOwned(ctx context.Context, id, userID int64) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		l, err := findListing(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := directory.CheckOwnerMutation(l, userID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id); err != nil {
			return fmt.Errorf("delete listing: %w", err)
		}
		return nil
	})
}

// Delete removes any listing. Used by admins.
func (s *ListingStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("listing")
	}
	return nil
}

// CountByStatus returns the number of listings in each status.
func (s *ListingStore) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM listings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count listings by status: %w", err)
	}
	defer rows.Close()

	counts := map[models.Status]int{
		models.StatusPending:  0,
		models.StatusApproved: 0,
		models.StatusRejected: 0,
	}
	for rows.Next() {
		var st models.Status
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, fmt.Errorf("scan listing count: %w", err)
		}
		counts[st] = n
	}
	return counts, rows.Err()
}
