// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Dune", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, apperr.CodeValidation, ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"display_name", "Test <test@example.com>", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

func TestValidator_UsernameAndSlug(t *testing.T) {
	tests := []struct {
		value    string
		username bool
		slug     bool
	}{
		{"plain", true, true},
		{"with.dot@host+tag-x_y", true, false},
		{"sci-fi_2", true, true},
		{"has space", false, false},
		{"emoji😀", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := &validate.Validator{}
			assert.Equal(t, !tt.username, v.Username("username", tt.value).HasErrors())

			s := &validate.Validator{}
			assert.Equal(t, !tt.slug, s.Slug("slug", tt.value).HasErrors())
		})
	}
}

/*
TestValidator_NotReserved verifies that the reserved word is rejected while
similar names pass.
*/
func TestValidator_NotReserved(t *testing.T) {
	assert.True(t, (&validate.Validator{}).NotReserved("username", "me", "me").HasErrors())
	assert.False(t, (&validate.Validator{}).NotReserved("username", "meg", "me").HasErrors())
	assert.False(t, (&validate.Validator{}).NotReserved("username", "Me", "me").HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("username", "").
		MinLen("username", "a", 5).
		Email("email", "not-an-email").
		Range("score", 11, 1, 10).
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 4)
}

// # Struct tags

type signupPayload struct {
	Username string  `json:"username" validate:"required,max=150,username"`
	Email    string  `json:"email" validate:"required,max=254,email"`
	Slug     *string `json:"slug" validate:"omitempty,max=50,slug"`
	Role     string  `json:"role" validate:"omitempty,oneof=user moderator admin"`
}

/*
TestStruct_ReportsJSONFieldNames verifies tag failures are reported under
the payload's JSON names.
*/
func TestStruct_ReportsJSONFieldNames(t *testing.T) {
	bad := "not a slug"
	err := validate.Struct(signupPayload{Username: "has space", Email: "nope", Slug: &bad, Role: "king"})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperr.CodeValidation, ae.Code)

	fields := make([]string, 0, len(ae.Details))
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	assert.ElementsMatch(t, []string{"username", "email", "slug", "role"}, fields)
}

func TestStruct_Valid(t *testing.T) {
	good := "sci-fi"
	assert.NoError(t, validate.Struct(signupPayload{Username: "reader", Email: "reader@example.com", Slug: &good}))
	assert.NoError(t, validate.Struct(signupPayload{Username: "reader", Email: "reader@example.com"}))
}

func TestStruct_Required(t *testing.T) {
	err := validate.Struct(signupPayload{})

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 2)
	assert.Equal(t, "This field is required.", ae.Details[0].Message)
}
