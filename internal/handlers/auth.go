// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"bizdir/internal/apperr"
	"bizdir/internal/auth"
	"bizdir/internal/mailer"
	"bizdir/internal/middleware"
	"bizdir/internal/respond"
	"bizdir/internal/session"
	"bizdir/internal/store"
	"bizdir/internal/validation"
)

// forgotMessage is returned whether or not the account exists.
const forgotMessage = "if an account with that email exists, a reset link has been sent"

// Auth groups all authentication-related HTTP handlers for both admins
// and end users.
type Auth struct {
	sessions *session.Store
	admins   *store.AdminStore
	users    *store.UserStore
	mail     mailer.Sender
	resetTTL time.Duration
	resetURL string
}

// NewAuth creates a new Auth handler group. resetURL is the front-end page
// that receives the reset token.
func NewAuth(sessions *session.Store, admins *store.AdminStore, users *store.UserStore, mail mailer.Sender, resetTTL time.Duration, resetURL string) *Auth {
	return &Auth{
		sessions: sessions,
		admins:   admins,
		users:    users,
		mail:     mail,
		resetTTL: resetTTL,
		resetURL: resetURL,
	}
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput is the end-user sign-up payload. Password length is
// checked by the store's password policy.
type RegisterInput struct {
	Email       string `json:"email" validate:"required,contact_email,max=255"`
	Password    string `json:"password" validate:"required"`
	DisplayName string `json:"display_name" validate:"required,notblank,max=255"`
}

// CodeInput carries a TOTP code.
type CodeInput struct {
	Code string `json:"code" validate:"required,numeric,len=6"`
}

// ForgotInput is the reset request payload.
type ForgotInput struct {
	Email string `json:"email"`
}

// ResetInput is the reset confirmation payload.
type ResetInput struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

// LoginResult tells the client whether a TOTP code is still required.
type LoginResult struct {
	Account       any  `json:"account"`
	TwoFARequired bool `json:"two_fa_required"`
}

var errBadCredentials = apperr.Unauthorized("invalid email or password")

// --- Admin ---

// AdminLogin checks admin credentials and opens a session. Admins with
// TOTP enabled must complete login through AdminVerify2FA.
func (a *Auth) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var in Credentials
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := validation.Struct(&in); err != nil {
		respond.Error(w, r, err)
		return
	}

	admin, err := a.admins.FindByEmail(r.Context(), in.Email)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if admin == nil || !store.CheckPassword(admin.PasswordHash, in.Password) {
		slog.Warn("admin login failed", "email", in.Email)
		respond.Error(w, r, errBadCredentials)
		return
	}

	needs2FA := admin.Needs2FA()
	err = a.sessions.Start(r.Context(), w, r, &session.Data{
		Kind:        auth.Admin.String(),
		ID:          admin.ID,
		Email:       admin.Email,
		DisplayName: admin.DisplayName,
		TwoFADone:   !needs2FA,
	})
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	slog.Info("admin signed in", "admin_id", admin.ID, "two_fa_pending", needs2FA)
	respond.JSON(w, http.StatusOK, LoginResult{Account: admin, TwoFARequired: needs2FA})
}

// AdminVerify2FA completes an admin login with a TOTP code.
func (a *Auth) AdminVerify2FA(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil || sess.Kind != auth.Admin.String() {
		respond.Error(w, r, apperr.Unauthorized("sign in first"))
		return
	}

	var in CodeInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := validation.Struct(&in); err != nil {
		respond.Error(w, r, err)
		return
	}

	admin, err := a.admins.FindByID(r.Context(), sess.ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if admin == nil {
		respond.Error(w, r, apperr.Unauthorized("account no longer exists"))
		return
	}
	if admin.Needs2FA() && !auth.ValidateCode(in.Code, *admin.TOTPSecret) {
		slog.Warn("admin 2fa failed", "admin_id", admin.ID)
		respond.Error(w, r, apperr.Unauthorized("invalid code"))
		return
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, LoginResult{Account: admin})
}

// AdminTwoFASetup generates a new TOTP secret for the signed-in admin and
// returns it with its QR code. TOTP stays disabled until AdminTwoFAEnable.
func (a *Auth) AdminTwoFASetup(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())

	enr, err := auth.NewEnrollment(p.Email)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := a.admins.SetTOTPSecret(r.Context(), p.ID, enr.Secret); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, enr)
}

// AdminTwoFAEnable turns on TOTP once the admin proves the secret works.
func (a *Auth) AdminTwoFAEnable(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())

	var in CodeInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := validation.Struct(&in); err != nil {
		respond.Error(w, r, err)
		return
	}

	admin, err := a.admins.FindByID(r.Context(), p.ID)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if admin == nil || admin.TOTPSecret == nil {
		respond.Error(w, r, apperr.Invalid("start two-factor setup first"))
		return
	}
	if !auth.ValidateCode(in.Code, *admin.TOTPSecret) {
		respond.Error(w, r, apperr.Invalid("invalid code"))
		return
	}
	if err := a.admins.EnableTOTP(r.Context(), admin.ID); err != nil {
		respond.Error(w, r, err)
		return
	}

	slog.Info("admin 2fa enabled", "admin_id", admin.ID)
	respond.JSON(w, http.StatusOK, respond.Message{Message: "two-factor authentication enabled"})
}

// AdminResetTwoFA clears another admin's TOTP enrollment so they can
// enroll again. Admins cannot reset their own.
func (a *Auth) AdminResetTwoFA(w http.ResponseWriter, r *http.Request) {
	p := auth.FromContext(r.Context())

	id, err := idParam(r, "id")
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if id == p.ID {
		respond.Error(w, r, apperr.Forbidden("cannot reset your own two-factor authentication"))
		return
	}
	if err := a.admins.ResetTOTP(r.Context(), id); err != nil {
		respond.Error(w, r, err)
		return
	}

	slog.Info("2fa reset by admin", "admin_id", p.ID, "target_admin_id", id)
	respond.JSON(w, http.StatusOK, respond.Message{Message: "two-factor authentication reset"})
}

// AdminForgotPassword starts an admin password reset.
func (a *Auth) AdminForgotPassword(w http.ResponseWriter, r *http.Request) {
	a.forgot(w, r, a.admins)
}

// AdminResetPassword completes an admin password reset.
func (a *Auth) AdminResetPassword(w http.ResponseWriter, r *http.Request) {
	a.reset(w, r, a.admins)
}

// --- End users ---

// UserRegister creates an end-user account and signs it in.
func (a *Auth) UserRegister(w http.ResponseWriter, r *http.Request) {
	var in RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := validation.Struct(&in); err != nil {
		respond.Error(w, r, err)
		return
	}

	u, err := a.users.Create(r.Context(), in.Email, in.Password, strings.TrimSpace(in.DisplayName))
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := a.sessions.Start(r.Context(), w, r, &session.Data{
		Kind: auth.User.String(), ID: u.ID, Email: u.Email, DisplayName: u.DisplayName,
	}); err != nil {
		respond.Error(w, r, err)
		return
	}

	slog.Info("user registered", "user_id", u.ID)
	respond.JSON(w, http.StatusCreated, u)
}

// UserLogin checks end-user credentials and opens a session.
func (a *Auth) UserLogin(w http.ResponseWriter, r *http.Request) {
	var in Credentials
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	if err := validation.Struct(&in); err != nil {
		respond.Error(w, r, err)
		return
	}

	u, err := a.users.FindByEmail(r.Context(), in.Email)
	if err != nil {
		respond.Error(w, r, err)
		return
	}
	if u == nil || !store.CheckPassword(u.PasswordHash, in.Password) {
		respond.Error(w, r, errBadCredentials)
		return
	}
	if err := a.sessions.Start(r.Context(), w, r, &session.Data{
		Kind: auth.User.String(), ID: u.ID, Email: u.Email, DisplayName: u.DisplayName,
	}); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, LoginResult{Account: u})
}

// UserForgotPassword starts an end-user password reset.
func (a *Auth) UserForgotPassword(w http.ResponseWriter, r *http.Request) {
	a.forgot(w, r, a.users)
}

// UserResetPassword completes an end-user password reset.
func (a *Auth) UserResetPassword(w http.ResponseWriter, r *http.Request) {
	a.reset(w, r, a.users)
}

// Logout destroys the session. It is shared by admins and users.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		respond.Error(w, r, err)
		return
	}
	respond.JSON(w, http.StatusOK, respond.Message{Message: "signed out"})
}

// --- Password reset ---

// resetAccounts is the reset-token surface shared by AdminStore and UserStore.
type resetAccounts interface {
	SetResetToken(ctx context.Context, email, tokenHash string, expiresAt time.Time) (bool, error)
	ResetPassword(ctx context.Context, tokenHash, password string) error
}

// forgot issues a reset token when the account exists. The response never
// reveals whether it does; failures after decoding are only logged.
func (a *Auth) forgot(w http.ResponseWriter, r *http.Request, accounts resetAccounts) {
	var in ForgotInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}

	email := strings.TrimSpace(in.Email)
	if validation.IsEmail(email) {
		if err := a.issueResetToken(r.Context(), accounts, email); err != nil {
			slog.Error("password reset request failed", "error", err)
		}
	}
	respond.JSON(w, http.StatusOK, respond.Message{Message: forgotMessage})
}

func (a *Auth) issueResetToken(ctx context.Context, accounts resetAccounts, email string) error {
	token, hash, err := auth.NewResetToken()
	if err != nil {
		return err
	}
	found, err := accounts.SetResetToken(ctx, email, hash, time.Now().Add(a.resetTTL))
	if err != nil || !found {
		return err
	}
	return a.mail.Send(ctx, mailer.ResetMail(email, a.resetURL, token, a.resetTTL))
}

// reset consumes a reset token and sets the new password.
func (a *Auth) reset(w http.ResponseWriter, r *http.Request, accounts resetAccounts) {
	var in ResetInput
	if err := decodeJSON(w, r, &in); err != nil {
		respond.Error(w, r, err)
		return
	}
	token := strings.TrimSpace(in.Token)
	if token == "" {
		respond.Error(w, r, store.ErrInvalidResetToken)
		return
	}

	if err := accounts.ResetPassword(r.Context(), auth.HashResetToken(token), in.Password); err != nil {
		respond.Error(w, r, err)
		return
	}
	slog.Info("password reset completed", "path", r.URL.Path)
	respond.JSON(w, http.StatusOK, respond.Message{Message: "password updated"})
}
