// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

type fixture struct {
	service *auth.Service
	users   *memoryUsers
	claims  *memoryClaims
	mail    *outbox
	tokens  *stubTokens
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	codes, err := sec.NewConfirmationCodes("test-secret", time.Hour)
	require.NoError(t, err)

	f := &fixture{
		users:  newMemoryUsers(),
		claims: newMemoryClaims(),
		mail:   &outbox{},
		tokens: &stubTokens{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.service = auth.NewService(f.users, f.claims, codes, f.tokens, f.mail, time.Hour, logger)
	return f
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	appError := apperr.As(err)
	require.NotNil(t, appError, "expected an AppError, got %v", err)
	fields := make(map[string]string, len(appError.Details))
	for _, detail := range appError.Details {
		fields[detail.Field] = detail.Message
	}
	return fields
}

// # Sign-up

/*
TestSignUp_CreatesUserAndMailsCode verifies the default role and that the
mailed code is accepted by the exchange.
*/
func TestSignUp_CreatesUserAndMailsCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.service.SignUp(ctx, auth.SignUpInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "reader", user.Username)
	assert.Equal(t, sec.RoleUser, user.Role)
	assert.NotZero(t, user.ID)

	require.Len(t, f.mail.messages, 1)
	assert.Equal(t, "reader@example.com", f.mail.last().To)
	assert.NotEmpty(t, f.mail.code())
	assert.NotContains(t, f.mail.code(), " ")
}

func TestSignUp_RejectsReservedUsername(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.SignUp(context.Background(), auth.SignUpInput{Username: "me", Email: "not-an-email"})

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, auth.FieldUsername)
	assert.Empty(t, f.mail.messages)
}

func TestSignUp_RejectsMalformedInput(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		input auth.SignUpInput
		field string
	}{
		{"empty_username", auth.SignUpInput{Email: "a@b.co"}, auth.FieldUsername},
		{"bad_username", auth.SignUpInput{Username: "with space", Email: "a@b.co"}, auth.FieldUsername},
		{"bad_email", auth.SignUpInput{Username: "reader", Email: "nope"}, auth.FieldEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.service.SignUp(context.Background(), tt.input)
			assert.Contains(t, fieldsOf(t, err), tt.field)
		})
	}
}

/*
TestSignUp_ReportsEveryTakenField verifies both conflicts surface together.
*/
func TestSignUp_ReportsEveryTakenField(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.SignUp(ctx, auth.SignUpInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)

	_, err = f.service.SignUp(ctx, auth.SignUpInput{Username: "reader", Email: "reader@example.com"})

	fields := fieldsOf(t, err)
	assert.Equal(t, auth.MsgUsernameTaken, fields[auth.FieldUsername])
	assert.Equal(t, auth.MsgEmailTaken, fields[auth.FieldEmail])
}

/*
TestSignUp_LostRaceMatchesPreCheck verifies a unique violation at insert
time reads the same as the pre-check.
*/
func TestSignUp_LostRaceMatchesPreCheck(t *testing.T) {
	f := newFixture(t)
	f.users.createErr = &dberr.UniqueViolation{Constraint: schema.UserAccount.EmailKey}

	_, err := f.service.SignUp(context.Background(), auth.SignUpInput{Username: "reader", Email: "reader@example.com"})

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, apperr.CodeValidation, appError.Code)
	assert.Equal(t, auth.MsgEmailTaken, fieldsOf(t, err)[auth.FieldEmail])
}

func TestSignUp_MailFailureIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.mail.err = errBoom

	_, err := f.service.SignUp(context.Background(), auth.SignUpInput{Username: "reader", Email: "reader@example.com"})

	assert.NoError(t, err)
}

// # Token Exchange

func signedUp(t *testing.T, f *fixture) (*auth.User, string) {
	t.Helper()
	user, err := f.service.SignUp(context.Background(), auth.SignUpInput{Username: "reader", Email: "reader@example.com"})
	require.NoError(t, err)
	return user, f.mail.code()
}

func TestObtainToken_Success(t *testing.T) {
	f := newFixture(t)
	user, code := signedUp(t, f)

	token, err := f.service.ObtainToken(context.Background(), auth.TokenInput{Username: "reader", ConfirmationCode: code})

	require.NoError(t, err)
	assert.Equal(t, "token-for-user", token)
	assert.Equal(t, []int64{user.ID}, f.tokens.issued)

	stored, err := f.users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLogin)
}

func TestObtainToken_UnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ObtainToken(context.Background(), auth.TokenInput{Username: "ghost", ConfirmationCode: "x-y"})

	assert.True(t, apperr.IsNotFound(err))
}

func TestObtainToken_MissingFields(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.ObtainToken(context.Background(), auth.TokenInput{})

	fields := fieldsOf(t, err)
	assert.Contains(t, fields, auth.FieldUsername)
	assert.Contains(t, fields, auth.FieldConfirmationCode)
}

func TestObtainToken_WrongCode(t *testing.T) {
	f := newFixture(t)
	signedUp(t, f)

	_, err := f.service.ObtainToken(context.Background(), auth.TokenInput{Username: "reader", ConfirmationCode: "0-deadbeef"})

	assert.True(t, apperr.HasCode(err, auth.CodeInvalidConfirmationCode))
	assert.Contains(t, fieldsOf(t, err), auth.FieldConfirmationCode)
	assert.Empty(t, f.tokens.issued)
}

/*
TestObtainToken_CodeIsSingleUse verifies a second exchange of the same code
fails.
*/
func TestObtainToken_CodeIsSingleUse(t *testing.T) {
	f := newFixture(t)
	_, code := signedUp(t, f)
	ctx := context.Background()

	_, err := f.service.ObtainToken(ctx, auth.TokenInput{Username: "reader", ConfirmationCode: code})
	require.NoError(t, err)

	_, err = f.service.ObtainToken(ctx, auth.TokenInput{Username: "reader", ConfirmationCode: code})
	assert.True(t, apperr.HasCode(err, auth.CodeInvalidConfirmationCode))
}

/*
TestObtainToken_ClaimedElsewhere covers the concurrent exchange: the code is
valid but another request claimed it first.
*/
func TestObtainToken_ClaimedElsewhere(t *testing.T) {
	f := newFixture(t)
	user, code := signedUp(t, f)

	claimed, err := f.claims.Claim(context.Background(), user.ID, code, time.Hour)
	require.NoError(t, err)
	require.True(t, claimed)

	_, err = f.service.ObtainToken(context.Background(), auth.TokenInput{Username: "reader", ConfirmationCode: code})
	assert.True(t, apperr.HasCode(err, auth.CodeInvalidConfirmationCode))
}

/*
TestObtainToken_StateChangeInvalidatesCode verifies a code dies with the
account state it was bound to.
*/
func TestObtainToken_StateChangeInvalidatesCode(t *testing.T) {
	f := newFixture(t)
	user, code := signedUp(t, f)

	f.users.update(user.ID, func(stored *auth.User) { stored.Role = sec.RoleModerator })

	_, err := f.service.ObtainToken(context.Background(), auth.TokenInput{Username: "reader", ConfirmationCode: code})
	assert.True(t, apperr.HasCode(err, auth.CodeInvalidConfirmationCode))
}

func TestObtainToken_ClaimStoreFailure(t *testing.T) {
	f := newFixture(t)
	_, code := signedUp(t, f)
	f.claims.err = errBoom

	_, err := f.service.ObtainToken(context.Background(), auth.TokenInput{Username: "reader", ConfirmationCode: code})

	assert.ErrorIs(t, err, errBoom)
}

// # Entity

func TestUser_Predicates(t *testing.T) {
	superuser := &auth.User{ID: 1, Role: sec.RoleUser, IsSuperuser: true}
	assert.True(t, superuser.IsAdmin())
	assert.False(t, superuser.IsModerator())
	assert.Equal(t, sec.RoleUser, superuser.Identity().Role)

	moderator := &auth.User{ID: 2, Role: sec.RoleModerator}
	assert.False(t, moderator.IsAdmin())
	assert.True(t, moderator.IsModerator())
}
