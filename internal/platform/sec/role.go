// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// RoleUser is the default role for every signed-up account. Users may
	// publish reviews and comments and edit their own.
	RoleUser UserRole = "user"

	// RoleModerator may edit or delete any review or comment.
	RoleModerator UserRole = "moderator"

	// RoleAdmin manages the catalogue and user accounts.
	RoleAdmin UserRole = "admin"
)

// Roles lists every assignable role in display order.
func Roles() []string {
	return []string{string(RoleUser), string(RoleModerator), string(RoleAdmin)}
}

// IsValid reports whether r is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// # Role Predicates

// IsAdmin reports administrator status. The superuser flag grants it
// regardless of the stored role.
func IsAdmin(role UserRole, isSuperuser bool) bool {
	return role == RoleAdmin || isSuperuser
}

// IsModerator reports moderator status. It looks at the stored role only;
// a superuser whose role is "user" is not a moderator.
func IsModerator(role UserRole) bool {
	return role == RoleModerator
}

// # Caller Identity

// Identity is the resolved caller attached to each authenticated request.
//
// It is rebuilt from storage on every request, so role changes take effect
// immediately for outstanding tokens. A nil *Identity is the anonymous caller
// and every predicate on it returns false.
type Identity struct {
	UserID      int64
	Username    string
	Role        UserRole
	IsSuperuser bool
}

// IsAuthenticated reports whether the caller is a known user.
func (i *Identity) IsAuthenticated() bool {
	return i != nil && i.UserID != 0
}

// IsAdmin reports whether the caller has administrator rights.
func (i *Identity) IsAdmin() bool {
	return i.IsAuthenticated() && IsAdmin(i.Role, i.IsSuperuser)
}

// IsModerator reports whether the caller holds the moderator role.
func (i *Identity) IsModerator() bool {
	return i.IsAuthenticated() && IsModerator(i.Role)
}

// IsStaff reports whether the caller is a moderator or an administrator.
func (i *Identity) IsStaff() bool {
	return i.IsModerator() || i.IsAdmin()
}
