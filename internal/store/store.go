// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all directory
// entities. Each store struct wraps a *sql.DB and exposes typed,
// context-aware query methods. Lookups return (nil, nil) when a row does
// not exist; mutations report expected outcomes as *apperr.Error.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"

	"bizdir/internal/apperr"
)

// PostgreSQL error codes inspected by the stores.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports whether err is a PostgreSQL unique violation.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == codeUniqueViolation
}

// IsForeignKeyViolation reports whether err is a PostgreSQL foreign key
// violation.
func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == codeForeignKeyViolation
}

// writeError maps constraint violations on insert or update of reference
// data to client errors. Anything else is wrapped with op.
func writeError(err error, op, what string) error {
	switch {
	case IsUniqueViolation(err):
		return apperr.Conflict("%s with this slug already exists", what)
	case IsForeignKeyViolation(err):
		return apperr.Invalid("%s references a record that does not exist", what)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// deleteError maps a foreign key violation on delete to a conflict.
func deleteError(err error, op, what string) error {
	if IsForeignKeyViolation(err) {
		return apperr.Conflict("%s is still referenced and cannot be deleted", what)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// withTx runs fn inside a transaction, committing on success.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// jsonStrings stores a []string as a JSONB array.
type jsonStrings []string

func (j jsonStrings) Value() (driver.Value, error) {
	if j == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(j))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (j *jsonStrings) Scan(src any) error {
	var b []byte
	switch v := src.(type) {
	case nil:
		*j = jsonStrings{}
		return nil
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("scan json array: unsupported type %T", src)
	}
	out := []string{}
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("scan json array: %w", err)
	}
	*j = out
	return nil
}

// where accumulates SQL conditions and their positional arguments.
type where struct {
	conds []string
	args  []any
}

// add appends a condition. Each "?" in cond is replaced by the next
// positional placeholder bound to arg.
func (w *where) add(cond string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(w.args))))
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// next returns the placeholder for an argument appended after the
// conditions, such as LIMIT and OFFSET.
func (w *where) next(arg any) string {
	w.args = append(w.args, arg)
	return fmt.Sprintf("$%d", len(w.args))
}

// likePattern escapes s for use inside an ILIKE substring match.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}
