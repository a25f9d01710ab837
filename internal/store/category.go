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
	"bizdir/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, sort_order, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by sort_order, with the number of
// approved listings in each.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.name, c.slug, c.description, c.parent_id, c.sort_order,
		       c.created_at, c.updated_at,
		       COUNT(l.id) AS listing_count
		FROM categories c
		LEFT JOIN listings l ON l.category_id = c.id AND l.status = 'approved'
		GROUP BY c.id
		ORDER BY c.sort_order, c.name
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		var c models.Category
		err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.Description,
			&c.ParentID, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt,
			&c.ListingCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Tree returns categories as a nested tree structure.
func (s *CategoryStore) Tree(ctx context.Context) ([]models.Category, error) {
	flat, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(flat), nil
}

// BuildTree nests a flat category list under its parents. Categories whose
// parent is missing from the list are treated as roots.
func BuildTree(flat []models.Category) []models.Category {
	known := make(map[int64]bool, len(flat))
	for _, c := range flat {
		known[c.ID] = true
	}
	roots := make([]models.Category, 0)
	for _, c := range flat {
		if c.ParentID == nil || !known[*c.ParentID] {
			c.Depth = 0
			c.Children = buildTree(flat, c.ID, 1)
			roots = append(roots, c)
		}
	}
	return roots
}

// buildTree recursively collects the children of parentID.
func buildTree(flat []models.Category, parentID int64, depth int) []models.Category {
	var result []models.Category
	for _, c := range flat {
		if c.ParentID != nil && *c.ParentID == parentID {
			c.Depth = depth
			c.Children = buildTree(flat, c.ID, depth+1)
			result = append(result, c)
		}
	}
	return result
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int64) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE slug = $1`, slug)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by slug: %w", err)
	}
	return c, nil
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, parent_id, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, writeError(err, "create category", "category")
	}
	return result, nil
}

// Update modifies an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (*models.Category, error) {
	if c.ParentID != nil && *c.ParentID == c.ID {
		return nil, apperr.Invalid("a category cannot be its own parent")
	}
	row := s.db.QueryRowContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4,
			sort_order = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder, c.ID,
	)
	result, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("category")
	}
	if err != nil {
		return nil, writeError(err, "update category", "category")
	}
	return result, nil
}

// Delete removes a category by ID. Children are re-parented (ON DELETE SET
// NULL); a category still used by listings or submissions cannot be removed.
func (s *CategoryStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return deleteError(err, "delete category", "category")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("category")
	}
	return nil
}

// NextSortOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextSortOrder(ctx context.Context, parentID *int64) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}
