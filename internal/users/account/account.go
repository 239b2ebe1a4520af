// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account handles user administration and the caller's own profile.

Administrators list, create, edit and delete accounts, including their role.
Every authenticated user can read and edit their own profile under /users/me,
where the role is read-only.

# Architecture

  - Entities: reuses [auth.User]; this package owns no table of its own.
  - Security: route groups are gated with [policy.AdministratorOnly] and
    [policy.Authenticated] before any handler runs.
*/
package account

import (
	"context"

	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user administration.
type AccountRepository interface {
	/*
		List returns one page of users ordered by username.

		Parameters:
		  - context: context.Context
		  - search: Case-insensitive username fragment, empty for all users
		  - params: pagination.Params

		Returns:
		  - []*auth.User: The page
		  - int: Total number of matching users
		  - error: Execution failures
	*/
	List(context context.Context, search string, params pagination.Params) ([]*auth.User, int, error)

	// FindByID retrieves a user by primary key.
	FindByID(context context.Context, id int64) (*auth.User, error)

	// FindByUsername retrieves a user by username.
	FindByUsername(context context.Context, username string) (*auth.User, error)

	// FindByEmail retrieves a user by email address.
	FindByEmail(context context.Context, email string) (*auth.User, error)

	// Create inserts a user, filling ID and DateJoined.
	Create(context context.Context, user *auth.User) error

	// Update persists the editable fields of user, matched by ID.
	Update(context context.Context, user *auth.User) error

	// DeleteByUsername removes the user together with their reviews and comments.
	DeleteByUsername(context context.Context, username string) error
}
