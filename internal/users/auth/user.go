// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements sign-up and the confirmation-code-for-token exchange.

There are no passwords. A user signs up with a username and an email, receives
a confirmation code by mail, and trades it for a bearer token. The token names
only the user id; the role is read again on every request.

# Architecture

  - User: the account entity, shared with the account package.
  - Service: sign-up and token exchange use cases.
  - Repository: Postgres for accounts, Redis for consumed codes.
*/
package auth

import (
	"time"

	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// # Domain Entities

// User is a YaMDb account.
//
// Only the profile fields are serialized; the superuser flag and timestamps
// stay server-side.
type User struct {
	ID          int64        `json:"-"`
	Username    string       `json:"username"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Bio         string       `json:"bio"`
	Role        sec.UserRole `json:"role"`
	IsSuperuser bool         `json:"-"`
	LastLogin   *time.Time   `json:"-"`
	DateJoined  time.Time    `json:"-"`
}

// IsAdmin reports whether the user has administrator rights.
func (user *User) IsAdmin() bool {
	return sec.IsAdmin(user.Role, user.IsSuperuser)
}

// IsModerator reports whether the user holds the moderator role.
func (user *User) IsModerator() bool {
	return sec.IsModerator(user.Role)
}

// Identity returns the request identity for this user.
func (user *User) Identity() *sec.Identity {
	return &sec.Identity{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		IsSuperuser: user.IsSuperuser,
	}
}

// CodeState returns the snapshot confirmation codes are bound to.
func (user *User) CodeState() sec.CodeState {
	return sec.CodeState{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Role:        user.Role,
		IsSuperuser: user.IsSuperuser,
		LastLogin:   user.LastLogin,
	}
}

// # Field Identifiers

// JSON field names used in payloads and validation details.
const (
	FieldUsername         = "username"
	FieldEmail            = "email"
	FieldFirstName        = "first_name"
	FieldLastName         = "last_name"
	FieldBio              = "bio"
	FieldRole             = "role"
	FieldConfirmationCode = "confirmation_code"
	FieldToken            = "token"
)
