// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the account access the authentication flow needs.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: int64

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id int64) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create inserts a new account and fills in its ID and DateJoined.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: *dberr.UniqueViolation when username or email is taken
	*/
	Create(context context.Context, user *User) error

	/*
		TouchLastLogin records a successful token exchange.

		Parameters:
		  - context: context.Context
		  - id: int64
		  - at: time.Time

		Returns:
		  - error: apperr.NotFound or storage failures
	*/
	TouchLastLogin(context context.Context, id int64, at time.Time) error
}

// # Volatile Data Access

// ConsumedCodeRepository remembers confirmation codes that were exchanged.
type ConsumedCodeRepository interface {

	/*
		Claim atomically marks code as used for userID.

		Parameters:
		  - context: context.Context
		  - userID: int64
		  - code: string
		  - ttl: time.Duration (How long the mark is kept)

		Returns:
		  - bool: true for the first claim, false if the code was already used
		  - error: Storage failures
	*/
	Claim(context context.Context, userID int64, code string, ttl time.Duration) (bool, error)
}
