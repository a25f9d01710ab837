// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"bizdir/internal/apperr"
)

// Password length bounds. bcrypt ignores bytes past 72.
const (
	MinPasswordLen = 8
	MaxPasswordLen = 72
)

// ErrInvalidResetToken is returned for a wrong, used or expired reset
// token. The three cases are deliberately indistinguishable.
var ErrInvalidResetToken = apperr.Invalid("invalid or expired reset token")

// HashPassword checks the password policy and returns a bcrypt hash.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLen || len(password) > MaxPasswordLen {
		return "", apperr.Invalid("password must be between %d and %d bytes", MinPasswordLen, MaxPasswordLen).
			WithDetail("fields", map[string]any{"password": "password length is out of range"})
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword verifies a plaintext password against a stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// accounts holds the reset-token queries shared by admin_users and users.
type accounts struct {
	db    *sql.DB
	table string
}

// setResetToken stores the token hash and expiry for the account with
// email. It reports whether such an account exists.
func (a accounts) setResetToken(ctx context.Context, email, tokenHash string, expiresAt time.Time) (bool, error) {
	res, err := a.db.ExecContext(ctx, `
		UPDATE `+a.table+` SET reset_token_hash = $1, reset_token_expires_at = $2, updated_at = NOW()
		WHERE email = $3
	`, tokenHash, expiresAt, normalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("set reset token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set reset token: %w", err)
	}
	return n > 0, nil
}

// resetPassword consumes a reset token and sets the new password hash in
// a single statement, so a token can be used at most once.
func (a accounts) resetPassword(ctx context.Context, tokenHash, passwordHash string) error {
	res, err := a.db.ExecContext(ctx, `
		UPDATE `+a.table+` SET password_hash = $1, reset_token_hash = NULL,
			reset_token_expires_at = NULL, updated_at = NOW()
		WHERE reset_token_hash = $2 AND reset_token_expires_at > NOW()
	`, passwordHash, tokenHash)
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if n == 0 {
		return ErrInvalidResetToken
	}
	return nil
}
