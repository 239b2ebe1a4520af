// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/constants"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/mailer"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider defines the contract for generating bearer tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT string for the given user.
	//
	// # Parameters
	//   - userID: The ID of the account.
	//   - timeToLive: The duration before the token expires.
	//
	// # Returns
	//   - A signed JWT string, or an err if signing fails.
	GenerateAccessToken(userID int64, timeToLive time.Duration) (string, error)
}

// CodeIssuer issues and checks confirmation codes. Implemented by
// [sec.ConfirmationCodes].
type CodeIssuer interface {
	Make(state sec.CodeState) string
	Check(state sec.CodeState, code string) bool
	TTL() time.Duration
}

// Service implements the authentication use cases.
//
// # Review Process
//
// Changes to code binding or single-use handling affect every outstanding
// confirmation code and must be reviewed together with platform/sec.
type Service struct {
	userRepository         UserRepository
	consumedCodeRepository ConsumedCodeRepository
	codeIssuer             CodeIssuer
	tokenProvider          TokenProvider
	mailer                 mailer.Mailer
	accessTokenTTL         time.Duration
	logger                 *slog.Logger
	now                    func() time.Time
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	userRepo UserRepository,
	consumedRepo ConsumedCodeRepository,
	codes CodeIssuer,
	tokenProv TokenProvider,
	mail mailer.Mailer,
	accessTokenTTL time.Duration,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository:         userRepo,
		consumedCodeRepository: consumedRepo,
		codeIssuer:             codes,
		tokenProvider:          tokenProv,
		mailer:                 mail,
		accessTokenTTL:         accessTokenTTL,
		logger:                 logger,
		now:                    time.Now,
	}
}

// WithClock replaces the clock used to stamp last_login. Intended for tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Sign-up Flow

// SignUpInput holds the data required to enroll a new member.
type SignUpInput struct {
	Username string
	Email    string
}

/*
SignUp validates and creates an account, then mails it a confirmation code.

Description: Uniqueness is pre-checked to report both fields at once; the
unique indexes close the race between the check and the insert, and a lost
race yields the same field errors. Mail delivery is best-effort.

Parameters:
  - context: context.Context
  - input: SignUpInput

Returns:
  - *User: Created entity
  - err: ValidationError or storage errors
*/
func (service *Service) SignUp(context context.Context, input SignUpInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if err := ValidateIdentityFields(input.Username, input.Email); err != nil {
		return nil, err
	}

	// Pre-check both unique fields so the client sees every conflict at once.
	validator := &validate.Validator{}
	taken, err := service.exists(context, service.userRepository.FindByUsername, input.Username)
	if err != nil {
		return nil, err
	}
	validator.Custom(FieldUsername, taken, MsgUsernameTaken)

	taken, err = service.exists(context, service.userRepository.FindByEmail, input.Email)
	if err != nil {
		return nil, err
	}
	validator.Custom(FieldEmail, taken, MsgEmailTaken)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user := &User{
		Username: input.Username,
		Email:    input.Email,
		Role:     sec.RoleUser,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		if mapped := UniqueFieldError(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("auth_service_signup_failed: %w", err)
	}

	service.sendCode(context, user)

	service.logger.InfoContext(context, "user_signed_up",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// sendCode mails a fresh confirmation code. Failures are logged only.
func (service *Service) sendCode(context context.Context, user *User) {
	code := service.codeIssuer.Make(user.CodeState())
	message := mailer.ConfirmationMessage(user.Email, user.Username, code)

	if err := service.mailer.Send(context, message); err != nil {
		service.logger.WarnContext(context, "confirmation_mail_failed",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err),
		)
	}
}

// exists reports whether lookup finds a row, treating NOT_FOUND as false.
func (service *Service) exists(context context.Context, lookup func(context.Context, string) (*User, error), value string) (bool, error) {
	_, err := lookup(context, value)
	switch {
	case err == nil:
		return true, nil
	case apperr.IsNotFound(err):
		return false, nil
	default:
		return false, fmt.Errorf("auth_service_uniqueness_check_failed: %w", err)
	}
}

// # Token Exchange

// TokenInput is a confirmation code presented for exchange.
type TokenInput struct {
	Username         string
	ConfirmationCode string
}

// ErrInvalidConfirmationCode is returned for a wrong, expired or reused code.
var ErrInvalidConfirmationCode = apperr.ValidationError(MsgInvalidCode,
	apperr.FieldError{Field: FieldConfirmationCode, Message: MsgInvalidCode},
).WithCode(CodeInvalidConfirmationCode)

/*
ObtainToken exchanges a confirmation code for a bearer token.

Description: The code must match the user's current state. It is then
claimed in Redis so concurrent exchanges cannot both succeed, and last_login
is stamped, which invalidates every other outstanding code.

Parameters:
  - context: context.Context
  - input: TokenInput

Returns:
  - string: Signed bearer token
  - err: ValidationError, NotFound (unknown username) or internal failures
*/
func (service *Service) ObtainToken(context context.Context, input TokenInput) (string, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		Required(FieldConfirmationCode, input.ConfirmationCode)
	if err := validator.Err(); err != nil {
		return "", err
	}

	user, err := service.userRepository.FindByUsername(context, input.Username)
	if err != nil {
		return "", err
	}

	if !service.codeIssuer.Check(user.CodeState(), input.ConfirmationCode) {
		return "", ErrInvalidConfirmationCode
	}

	claimed, err := service.consumedCodeRepository.Claim(context, user.ID, input.ConfirmationCode, service.codeIssuer.TTL())
	if err != nil {
		return "", fmt.Errorf("auth_service_claim_code_failed: %w", err)
	}
	if !claimed {
		return "", ErrInvalidConfirmationCode
	}

	if err := service.userRepository.TouchLastLogin(context, user.ID, service.now().UTC()); err != nil {
		return "", fmt.Errorf("auth_service_touch_last_login_failed: %w", err)
	}

	token, err := service.tokenProvider.GenerateAccessToken(user.ID, service.accessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_generation_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_token_issued", slog.Int64("user_id", user.ID))

	return token, nil
}

// # Shared Rules

// ValidateIdentityFields checks username and email the same way at sign-up,
// admin user creation and profile edits.
func ValidateIdentityFields(username, email string) error {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, username).
		MaxLen(FieldUsername, username, UsernameMaxLength).
		NotReserved(FieldUsername, username, constants.ReservedUsername).
		Required(FieldEmail, email).
		MaxLen(FieldEmail, email, EmailMaxLength)

	if username != "" {
		validator.Username(FieldUsername, username)
	}
	if email != "" {
		validator.Email(FieldEmail, email)
	}

	return validator.Err()
}

// UniqueFieldError converts a unique violation on users.account into the
// same field error the pre-check reports. It returns nil for other errors.
func UniqueFieldError(err error) error {
	switch {
	case dberr.IsUniqueViolation(err, schema.UserAccount.UsernameKey):
		return apperr.FieldInvalid(FieldUsername, MsgUsernameTaken)
	case dberr.IsUniqueViolation(err, schema.UserAccount.EmailKey):
		return apperr.FieldInvalid(FieldEmail, MsgEmailTaken)
	}
	return nil
}
