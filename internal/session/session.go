// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session keeps signed-in admins and end users in Valkey. The
// browser holds only a random id in the bd_session cookie; the payload is
// JSON under session:<id> with a sliding 24h TTL.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"bizdir/internal/auth"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "bd_session"

	// DefaultTTL is how long an idle session survives in Valkey.
	DefaultTTL = 24 * time.Hour

	keyPrefix = "session:"
	idBytes   = 32
)

// ErrNoSession is returned by Update when the request carries no session
// cookie.
var ErrNoSession = errors.New("no session cookie")

// Data is the session payload. Admin and end-user sessions share the
// cookie, so a browser holds at most one identity at a time.
type Data struct {
	Kind        string    `json:"kind"` // "admin" or "user"
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	TwoFADone   bool      `json:"two_fa_done"`
	CreatedAt   time.Time `json:"created_at"`
}

// Principal converts the session into the request principal. A nil or
// unrecognized session yields the anonymous principal.
func (d *Data) Principal() auth.Principal {
	if d == nil {
		return auth.Principal{}
	}
	kind := auth.ParseKind(d.Kind)
	if kind == auth.Anonymous {
		return auth.Principal{}
	}
	return auth.Principal{
		Kind:        kind,
		ID:          d.ID,
		Email:       d.Email,
		DisplayName: d.DisplayName,
		TwoFADone:   d.TwoFADone,
	}
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
}

// NewStore creates a session store on client. secure sets the Secure flag
// on the cookie and is off only in development.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{client: client, ttl: DefaultTTL, secure: secure}
}

// Start signs the browser in as data. Any session the request already
// carries is deleted first, so every login gets a fresh id.
func (s *Store) Start(ctx context.Context, w http.ResponseWriter, r *http.Request, data *Data) error {
	if old := cookieID(r); old != "" {
		if err := s.client.Del(ctx, key(old)).Err(); err != nil {
			return fmt.Errorf("drop previous session: %w", err)
		}
	}

	id, err := newID()
	if err != nil {
		return fmt.Errorf("generate session id: %w", err)
	}
	data.CreatedAt = time.Now().UTC()
	if err := s.save(ctx, id, data); err != nil {
		return err
	}

	http.SetCookie(w, s.cookie(id, int(s.ttl.Seconds())))
	return nil
}

// Get loads the session behind r. It returns (nil, nil) when there is no
// cookie or the session has expired.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	id := cookieID(r)
	if id == "" {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &data, nil
}

// Update rewrites the session behind r, keeping its id and restarting the
// TTL. Used to record a completed second factor.
func (s *Store) Update(ctx context.Context, r *http.Request, data *Data) error {
	id := cookieID(r)
	if id == "" {
		return ErrNoSession
	}
	return s.save(ctx, id, data)
}

// Destroy deletes the session behind r and expires the cookie. Requests
// without a session are a no-op.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	id := cookieID(r)
	if id == "" {
		return nil
	}
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	http.SetCookie(w, s.cookie("", -1))
	return nil
}

func (s *Store) save(ctx context.Context, id string, data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, key(id), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *Store) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	}
}

func cookieID(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func key(id string) string { return keyPrefix + id }

func newID() (string, error) {
	b := make([]byte, idBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
