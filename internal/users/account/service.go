// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Service Layer

// Service orchestrates user administration and self-service profile edits.
type Service struct {
	accountRepository AccountRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo AccountRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// # Inputs

// CreateInput carries the fields an administrator supplies for a new user.
type CreateInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	// Role defaults to [sec.RoleUser] when empty.
	Role sec.UserRole
}

// UpdateInput is a partial edit; nil fields keep their stored value.
type UpdateInput struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *sec.UserRole
}

// # Administration

// List returns a page of users whose username contains search.
func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, total, nil
}

// Get returns the user with the given username.
func (service *Service) Get(context context.Context, username string) (*auth.User, error) {
	return service.accountRepository.FindByUsername(context, username)
}

/*
Create adds a user on behalf of an administrator.

Description: Applies the sign-up rules for username and email, including the
reserved "me", plus the profile length limits and a known role. Both unique
fields are pre-checked; a lost race yields the same field errors.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.User: Created entity
  - error: ValidationError or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	user := &auth.User{
		Username:  strings.TrimSpace(input.Username),
		Email:     strings.TrimSpace(input.Email),
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      input.Role,
	}
	if user.Role == "" {
		user.Role = sec.RoleUser
	}

	if err := service.validate(context, user, 0); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Create(context, user); err != nil {
		if mapped := auth.UniqueFieldError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_created",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// Update edits the user named username. The role may be changed.
func (service *Service) Update(context context.Context, username string, input UpdateInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByUsername(context, username)
	if err != nil {
		return nil, err
	}
	return service.apply(context, user, input, true)
}

// Delete removes the user named username.
func (service *Service) Delete(context context.Context, username string) error {
	if err := service.accountRepository.DeleteByUsername(context, username); err != nil {
		if apperr.IsNotFound(err) {
			return err
		}
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_deleted", slog.String("username", username))
	return nil
}

// # Self Service

// Me returns the caller's own account.
func (service *Service) Me(context context.Context, identity *sec.Identity) (*auth.User, error) {
	return service.accountRepository.FindByID(context, identity.UserID)
}

// UpdateMe edits the caller's own account. A role in input is ignored.
func (service *Service) UpdateMe(context context.Context, identity *sec.Identity, input UpdateInput) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, identity.UserID)
	if err != nil {
		return nil, err
	}
	return service.apply(context, user, input, false)
}

// # Internal Helpers

/*
apply merges input into user, validates the result and persists it.

Description: Validation runs on the merged state so a rename to "me" or to a
taken name is rejected the same way as at creation. allowRole is false on the
self-service path, where the stored role always wins.
*/
func (service *Service) apply(context context.Context, user *auth.User, input UpdateInput, allowRole bool) (*auth.User, error) {
	if input.Username != nil {
		user.Username = strings.TrimSpace(*input.Username)
	}
	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if allowRole && input.Role != nil {
		user.Role = *input.Role
	}

	if err := service.validate(context, user, user.ID); err != nil {
		return nil, err
	}

	if err := service.accountRepository.Update(context, user); err != nil {
		if mapped := auth.UniqueFieldError(err); mapped != nil {
			return nil, mapped
		}
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_updated",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// validate checks user as it would be stored. selfID is the row being
// edited, zero on create; a unique value held by that row is not a conflict.
func (service *Service) validate(context context.Context, user *auth.User, selfID int64) error {
	if err := auth.ValidateIdentityFields(user.Username, user.Email); err != nil {
		return err
	}

	validator := &validate.Validator{}
	validator.MaxLen(auth.FieldFirstName, user.FirstName, auth.NameMaxLength).
		MaxLen(auth.FieldLastName, user.LastName, auth.NameMaxLength).
		OneOf(auth.FieldRole, string(user.Role), sec.Roles()...)

	taken, err := service.heldByOther(context, service.accountRepository.FindByUsername, user.Username, selfID)
	if err != nil {
		return err
	}
	validator.Custom(auth.FieldUsername, taken, auth.MsgUsernameTaken)

	taken, err = service.heldByOther(context, service.accountRepository.FindByEmail, user.Email, selfID)
	if err != nil {
		return err
	}
	validator.Custom(auth.FieldEmail, taken, auth.MsgEmailTaken)

	return validator.Err()
}

// heldByOther reports whether value belongs to an account other than selfID.
func (service *Service) heldByOther(context context.Context, lookup func(context.Context, string) (*auth.User, error), value string, selfID int64) (bool, error) {
	existing, err := lookup(context, value)
	switch {
	case err == nil:
		return existing.ID != selfID, nil
	case apperr.IsNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("account_service_uniqueness_check_failed: %w", err)
	}
}
