// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"qaboard/internal/middleware"
	"qaboard/internal/models"
	"qaboard/internal/session"
	"qaboard/internal/store"
)

const totpIssuer = "qaboard"

// Auth groups registration, login and admin two-factor handlers.
type Auth struct {
	sessions  *session.Store
	userStore *store.UserStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(sessions *session.Store, userStore *store.UserStore) *Auth {
	return &Auth{
		sessions:  sessions,
		userStore: userStore,
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Contact  string `json:"phone_or_email" validate:"required,contact"`
	Country  string `json:"country" validate:"max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Register creates a member account. The contact is an email when it
// contains "@", otherwise a phone number.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	email, phone := models.SplitContact(req.Contact)
	user, err := a.userStore.Create(r.Context(), store.NewUser{
		Username: strings.TrimSpace(req.Username),
		Email:    email,
		Phone:    phone,
		Country:  strings.TrimSpace(req.Country),
		Password: req.Password,
	})
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusBadRequest, "email or phone already registered")
		return
	}
	if err != nil {
		serverError(w, r, "register user failed", err)
		return
	}

	slog.Info("user registered", "user_id", user.ID)
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	User          *models.User `json:"user"`
	TwoFARequired bool         `json:"two_fa_required"`
	TwoFASetup    bool         `json:"two_fa_setup"`
}

// Login checks credentials and starts a session. Admin sessions start
// with TwoFADone false and must pass /api/auth/2fa/verify.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	login := strings.TrimSpace(req.Login)
	user, err := a.userStore.FindByLogin(r.Context(), login)
	if err != nil {
		serverError(w, r, "login lookup failed", err)
		return
	}
	if user == nil || !a.userStore.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid login or password")
		return
	}

	// A new login never reuses the session id the client arrived with.
	if err := a.sessions.Revoke(r.Context(), r); err != nil {
		slog.Warn("previous session revoke failed", "user_id", user.ID, "error", err)
	}
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Username:  user.Username,
		Contact:   user.Contact(),
		Role:      string(user.Role),
		TwoFADone: !user.IsAdmin(),
	})
	if err != nil {
		serverError(w, r, "session create failed", err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		User:          user,
		TwoFARequired: user.IsAdmin(),
		TwoFASetup:    user.Needs2FASetup(),
	})
}

// Logout destroys the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me returns the signed-in user.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	user, err := a.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil {
		serverError(w, r, "load current user failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":        user,
		"two_fa_done": sess.TwoFADone,
	})
}

type interestsRequest struct {
	Interests []string `json:"interests" validate:"max=10,dive,category"`
}

// SetInterests replaces the signed-in user's followed categories.
func (a *Auth) SetInterests(w http.ResponseWriter, r *http.Request) {
	var req interestsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	if err := a.userStore.SetInterests(r.Context(), sess.UserID, req.Interests); err != nil {
		serverError(w, r, "save interests failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"interests": req.Interests})
}

// TwoFASetup generates a fresh TOTP secret for an admin and returns it
// with a base64 PNG QR code. The secret is active only after a verified code.
func (a *Auth) TwoFASetup(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if !sess.IsAdmin() {
		writeError(w, http.StatusForbidden, "Forbidden")
		return
	}

	user, err := a.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		serverError(w, r, "user lookup for 2fa failed", err)
		return
	}
	if user.TOTPEnabled {
		writeError(w, http.StatusConflict, "two-factor authentication already enabled")
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Contact,
	})
	if err != nil {
		serverError(w, r, "totp generate failed", err)
		return
	}

	if err := a.userStore.SetTOTPSecret(r.Context(), sess.UserID, key.Secret()); err != nil {
		serverError(w, r, "save totp secret failed", err)
		return
	}

	qr, err := qrPNG(key)
	if err != nil {
		serverError(w, r, "qr code generation failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"secret":  key.Secret(),
		"qr_code": qr,
	})
}

type verifyRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

// TwoFAVerify validates a TOTP code and marks the session as complete.
// The first valid code after setup enables TOTP on the account.
func (a *Auth) TwoFAVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.userStore.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		serverError(w, r, "user lookup for 2fa failed", err)
		return
	}
	if user.TOTPSecret == nil {
		writeError(w, http.StatusBadRequest, "two-factor authentication not set up")
		return
	}

	if !totp.Validate(req.Code, *user.TOTPSecret) {
		writeError(w, http.StatusUnauthorized, "invalid code")
		return
	}

	if !user.TOTPEnabled {
		if err := a.userStore.EnableTOTP(r.Context(), user.ID); err != nil {
			serverError(w, r, "enable totp failed", err)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		serverError(w, r, "session update failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func qrPNG(key *otp.Key) (string, error) {
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
