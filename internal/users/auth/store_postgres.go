// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// resourceUser names the entity in NOT_FOUND errors.
const resourceUser = "User"

// # User Repository

// PostgresUserRepository implements [UserRepository] on users.account.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// UserColumns is the select list matching [ScanUser].
func UserColumns() string {
	return strings.Join(schema.UserAccount.Columns(), ", ")
}

// ScanUser reads one row selected with [UserColumns].
func ScanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Bio,
		&user.Role,
		&user.IsSuperuser,
		&user.LastLogin,
		&user.DateJoined,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (repository *PostgresUserRepository) findBy(context context.Context, column string, value any) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		UserColumns(), schema.UserAccount.Table, column)

	user, err := ScanUser(repository.pool.QueryRow(context, query, value))
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}
	return user, nil
}

// FindByID implements [UserRepository].
func (repository *PostgresUserRepository) FindByID(context context.Context, id int64) (*User, error) {
	return repository.findBy(context, schema.UserAccount.ID, id)
}

// FindByUsername implements [UserRepository].
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Username, username)
}

// FindByEmail implements [UserRepository].
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Email, email)
}

/*
Create persists a new user record into the users.account table.

Description: Relies on the account_username_key and account_email_key unique
constraints; a violation comes back as *dberr.UniqueViolation.

Parameters:
  - context: context.Context
  - user: *User (ID and DateJoined are filled in)

Returns:
  - error: Constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s`,
		schema.UserAccount.Table,
		schema.UserAccount.Username, schema.UserAccount.Email, schema.UserAccount.FirstName,
		schema.UserAccount.LastName, schema.UserAccount.Bio, schema.UserAccount.Role,
		schema.UserAccount.IsSuperuser,
		schema.UserAccount.ID, schema.UserAccount.DateJoined,
	)

	err := repository.pool.QueryRow(context, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Bio,
		user.Role,
		user.IsSuperuser,
	).Scan(&user.ID, &user.DateJoined)

	if err != nil {
		return dberr.Wrap(err, resourceUser)
	}
	return nil
}

// TouchLastLogin implements [UserRepository].
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, id int64, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.LastLogin, schema.UserAccount.ID)

	tag, err := repository.pool.Exec(context, query, id, at)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_touch_last_login_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resourceUser)
	}
	return nil
}

/*
ResolveIdentity loads the live role and superuser flag for a token subject.

Description: Satisfies middleware.IdentityResolver. Only the columns needed
for authorization are read.

Parameters:
  - context: context.Context
  - userID: int64

Returns:
  - *sec.Identity: The caller identity
  - error: apperr.NotFound if the account no longer exists
*/
func (repository *PostgresUserRepository) ResolveIdentity(context context.Context, userID int64) (*sec.Identity, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Role,
		schema.UserAccount.IsSuperuser, schema.UserAccount.Table, schema.UserAccount.ID)

	identity := &sec.Identity{}
	err := repository.pool.QueryRow(context, query, userID).Scan(
		&identity.UserID,
		&identity.Username,
		&identity.Role,
		&identity.IsSuperuser,
	)
	if err != nil {
		return nil, dberr.Wrap(err, resourceUser)
	}
	return identity, nil
}
