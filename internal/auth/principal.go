// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package auth identifies the caller of a request and provides the
// credential primitives used by the login and password reset flows.
package auth

import "context"

// Kind is the type of an authenticated caller.
type Kind int

const (
	Anonymous Kind = iota
	Admin
	User
)

func (k Kind) String() string {
	switch k {
	case Admin:
		return "admin"
	case User:
		return "user"
	default:
		return "anonymous"
	}
}

// ParseKind maps a stored session kind back to a Kind.
func ParseKind(s string) Kind {
	switch s {
	case "admin":
		return Admin
	case "user":
		return User
	default:
		return Anonymous
	}
}

// Principal is the caller of a request. ID is zero for anonymous callers.
// An admin whose second factor is still outstanding has TwoFADone unset
// and is not yet entitled to admin routes.
type Principal struct {
	Kind        Kind
	ID          int64
	Email       string
	DisplayName string
	TwoFADone   bool
}

// IsAdmin reports whether p is a fully authenticated admin.
func (p Principal) IsAdmin() bool {
	return p.Kind == Admin && p.TwoFADone
}

// IsUser reports whether p is an end user.
func (p Principal) IsUser() bool {
	return p.Kind == User
}

// UserID returns the end-user id, or nil when p is not a user.
func (p Principal) UserID() *int64 {
	if p.Kind != User {
		return nil
	}
	id := p.ID
	return &id
}

type ctxKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// FromContext returns the request's principal, or an anonymous one.
func FromContext(ctx context.Context) Principal {
	p, _ := ctx.Value(ctxKey{}).(Principal)
	return p
}
