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
	"bizdir/internal/models"
)

// AdminStore handles moderator accounts, including TOTP enrollment.
type AdminStore struct {
	db *sql.DB
	accounts
}

// NewAdminStore creates a new AdminStore with the given database connection.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db, accounts: accounts{db: db, table: "admin_users"}}
}

const adminColumns = `id, email, password_hash, display_name, totp_secret, totp_enabled, created_at, updated_at`

func scanAdmin(row scanner) (*models.AdminUser, error) {
	var u models.AdminUser
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail retrieves an admin by email address. Returns nil if not found.
func (s *AdminStore) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	u, err := scanAdmin(s.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE email = $1`, normalizeEmail(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves an admin by ID. Returns nil if not found.
func (s *AdminStore) FindByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	u, err := scanAdmin(s.db.QueryRowContext(ctx,
		`SELECT `+adminColumns+` FROM admin_users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by id: %w", err)
	}
	return u, nil
}

// Create inserts a new admin with a bcrypt-hashed password.
func (s *AdminStore) Create(ctx context.Context, email, password, displayName string) (*models.AdminUser, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u, err := scanAdmin(s.db.QueryRowContext(ctx, `
		INSERT INTO admin_users (email, password_hash, display_name)
		VALUES ($1, $2, $3)
		RETURNING `+adminColumns,
		normalizeEmail(email), hash, displayName,
	))
	if IsUniqueViolation(err) {
		return nil, apperr.Conflict("an admin with this email already exists")
	}
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return u, nil
}

// SetTOTPSecret saves the pending TOTP secret for an admin during 2FA
// setup. An enabled enrollment is never overwritten; it has to be reset by
// another admin first.
func (s *AdminStore) SetTOTPSecret(ctx context.Context, adminID int64, secret string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE admin_users SET totp_secret = $1, updated_at = NOW()
		WHERE id = $2 AND NOT totp_enabled
	`, secret, adminID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	if n == 0 {
		return apperr.Conflict("two-factor authentication is already enabled")
	}
	return nil
}

// EnableTOTP marks 2FA as active after a successful code verification.
func (s *AdminStore) EnableTOTP(ctx context.Context, adminID int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE admin_users SET totp_enabled = TRUE, updated_at = NOW()
		WHERE id = $1 AND totp_secret IS NOT NULL
	`, adminID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// ResetTOTP clears the TOTP secret and disables 2FA for an admin.
func (s *AdminStore) ResetTOTP(ctx context.Context, adminID int64) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE admin_users SET totp_secret = NULL, totp_enabled = FALSE, updated_at = NOW() WHERE id = $1
	`, adminID)
	if err != nil {
		return fmt.Errorf("reset totp: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("admin")
	}
	return nil
}

// SetResetToken stores a password reset token hash for the admin with
// email. It reports whether such an admin exists.
func (s *AdminStore) SetResetToken(ctx context.Context, email, tokenHash string, expiresAt time.Time) (bool, error) {
	return s.setResetToken(ctx, email, tokenHash, expiresAt)
}

// ResetPassword consumes a reset token and sets a new password.
func (s *AdminStore) ResetPassword(ctx context.Context, tokenHash, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	return s.resetPassword(ctx, tokenHash, hash)
}
