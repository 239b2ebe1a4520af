// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package policy_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/policy"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

type post struct{ authorID int64 }

func (p post) AuthoredBy() int64 { return p.authorID }

var (
	anonymous *sec.Identity
	author    = &sec.Identity{UserID: 1, Username: "author", Role: sec.RoleUser}
	stranger  = &sec.Identity{UserID: 2, Username: "stranger", Role: sec.RoleUser}
	moderator = &sec.Identity{UserID: 3, Username: "moderator", Role: sec.RoleModerator}
	admin     = &sec.Identity{UserID: 4, Username: "admin", Role: sec.RoleAdmin}
	superuser = &sec.Identity{UserID: 5, Username: "root", Role: sec.RoleUser, IsSuperuser: true}
)

/*
TestPermissionGates checks every policy's collection-level decision for each
kind of caller on a read and a write.
*/
func TestPermissionGates(t *testing.T) {
	tests := []struct {
		name     string
		policy   policy.Policy
		identity *sec.Identity
		method   string
		allowed  bool
	}{
		{"admin_only_anonymous", policy.AdministratorOnly, anonymous, http.MethodGet, false},
		{"admin_only_user", policy.AdministratorOnly, author, http.MethodGet, false},
		{"admin_only_moderator", policy.AdministratorOnly, moderator, http.MethodGet, false},
		{"admin_only_admin", policy.AdministratorOnly, admin, http.MethodDelete, true},
		{"admin_only_superuser", policy.AdministratorOnly, superuser, http.MethodPost, true},

		{"moderator_only_user", policy.ModeratorOnly, author, http.MethodGet, false},
		{"moderator_only_moderator", policy.ModeratorOnly, moderator, http.MethodPost, true},
		{"moderator_only_admin", policy.ModeratorOnly, admin, http.MethodPost, false},
		{"moderator_only_superuser", policy.ModeratorOnly, superuser, http.MethodPost, false},

		{"admin_or_read_anonymous_get", policy.AdministratorOrReadOnly, anonymous, http.MethodGet, true},
		{"admin_or_read_anonymous_head", policy.AdministratorOrReadOnly, anonymous, http.MethodHead, true},
		{"admin_or_read_anonymous_post", policy.AdministratorOrReadOnly, anonymous, http.MethodPost, false},
		{"admin_or_read_user_post", policy.AdministratorOrReadOnly, author, http.MethodPost, false},
		{"admin_or_read_moderator_delete", policy.AdministratorOrReadOnly, moderator, http.MethodDelete, false},
		{"admin_or_read_admin_patch", policy.AdministratorOrReadOnly, admin, http.MethodPatch, true},
		{"admin_or_read_superuser_post", policy.AdministratorOrReadOnly, superuser, http.MethodPost, true},

		{"author_staff_anonymous_get", policy.AuthorOrStaffOrReadOnly, anonymous, http.MethodGet, true},
		{"author_staff_anonymous_options", policy.AuthorOrStaffOrReadOnly, anonymous, http.MethodOptions, true},
		{"author_staff_anonymous_post", policy.AuthorOrStaffOrReadOnly, anonymous, http.MethodPost, false},
		{"author_staff_user_post", policy.AuthorOrStaffOrReadOnly, stranger, http.MethodPost, true},

		{"authenticated_anonymous", policy.Authenticated, anonymous, http.MethodGet, false},
		{"authenticated_user", policy.Authenticated, author, http.MethodPatch, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.policy.Allow(tt.identity, tt.method, nil))
		})
	}
}

/*
TestAuthorOrStaffOrReadOnly_ObjectGate covers mutations of an existing object.
*/
func TestAuthorOrStaffOrReadOnly_ObjectGate(t *testing.T) {
	target := post{authorID: author.UserID}

	tests := []struct {
		name     string
		identity *sec.Identity
		method   string
		allowed  bool
	}{
		{"author_patch", author, http.MethodPatch, true},
		{"author_delete", author, http.MethodDelete, true},
		{"stranger_patch", stranger, http.MethodPatch, false},
		{"stranger_delete", stranger, http.MethodDelete, false},
		{"stranger_read", stranger, http.MethodGet, true},
		{"moderator_delete", moderator, http.MethodDelete, true},
		{"admin_patch", admin, http.MethodPatch, true},
		{"superuser_delete", superuser, http.MethodDelete, true},
		{"anonymous_delete", anonymous, http.MethodDelete, false},
		{"anonymous_read", anonymous, http.MethodGet, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, policy.AuthorOrStaffOrReadOnly.Allow(tt.identity, tt.method, target))
		})
	}
}

/*
TestObjectGate_ShortCircuits verifies an anonymous caller is denied on the
object gate even when the object's author id is zero.
*/
func TestObjectGate_ShortCircuits(t *testing.T) {
	orphan := post{authorID: 0}
	assert.False(t, policy.AuthorOrStaffOrReadOnly.Allow(anonymous, http.MethodPatch, orphan))
}

func TestAll(t *testing.T) {
	combined := policy.All(policy.Authenticated, policy.AdministratorOrReadOnly)

	assert.Equal(t, "Authenticated+AdministratorOrReadOnly", combined.Name())
	assert.False(t, combined.Allow(anonymous, http.MethodGet, nil))
	assert.True(t, combined.Allow(author, http.MethodGet, nil))
	assert.False(t, combined.Allow(author, http.MethodPost, nil))
	assert.True(t, combined.Allow(admin, http.MethodPost, nil))
}

/*
TestCheck_ErrorMapping verifies anonymous denials are 401 and known-caller
denials are 403.
*/
func TestCheck_ErrorMapping(t *testing.T) {
	assert.NoError(t, policy.Check(policy.AdministratorOrReadOnly, anonymous, http.MethodGet, nil))

	err := policy.Check(policy.AdministratorOrReadOnly, anonymous, http.MethodPost, nil)
	assert.Equal(t, http.StatusUnauthorized, apperr.As(err).HTTPStatus)

	err = policy.Check(policy.AdministratorOrReadOnly, author, http.MethodPost, nil)
	assert.Equal(t, http.StatusForbidden, apperr.As(err).HTTPStatus)

	err = policy.Check(policy.AuthorOrStaffOrReadOnly, stranger, http.MethodDelete, post{authorID: author.UserID})
	assert.Equal(t, apperr.CodeForbidden, apperr.As(err).Code)
}

func TestIsSafeMethod(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		assert.True(t, policy.IsSafeMethod(method), method)
	}
	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		assert.False(t, policy.IsSafeMethod(method), method)
	}
}
