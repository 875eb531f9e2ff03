// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// User represents a registered board user. Members sign in with a password;
// admins additionally complete TOTP.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        *string   `json:"email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Country      *string   `json:"country,omitempty"`
	Image        *string   `json:"image,omitempty"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	Role         Role      `json:"role"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	Interests    []string  `json:"interests"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Needs2FASetup returns true if an admin has not completed 2FA enrollment.
// Members never need it.
func (u *User) Needs2FASetup() bool {
	return u.IsAdmin() && !u.TOTPEnabled
}

// Contact returns the email if set, otherwise the phone number.
func (u *User) Contact() string {
	if u.Email != nil {
		return *u.Email
	}
	if u.Phone != nil {
		return *u.Phone
	}
	return ""
}

// SplitContact classifies a registration contact: anything containing "@"
// is an email, everything else is a phone number. Exactly one of the
// returned pointers is non-nil for a non-empty input.
func SplitContact(contact string) (email, phone *string) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return nil, nil
	}
	if strings.Contains(contact, "@") {
		e := strings.ToLower(contact)
		return &e, nil
	}
	return nil, &contact
}
