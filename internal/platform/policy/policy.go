// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package policy implements the authorization rules applied to every resource.

Each [Policy] answers two questions with the same Allow method:

  - Permission gate (target == nil): may this caller issue this method against
    the resource collection at all? Evaluated by middleware before any
    object is loaded.
  - Object gate (target != nil): may this caller mutate this particular
    object? Evaluated by services once the object is resolved. It always
    re-applies the permission gate first and denies if that fails.

Policies are pure predicates over the caller [sec.Identity], the HTTP method
and the target. They never touch storage.
*/
package policy

import (
	"net/http"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/metrics"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// Authored is implemented by objects that belong to a single user.
type Authored interface {
	AuthoredBy() int64
}

// Policy decides whether a caller may perform a method on a target.
type Policy interface {
	// Name identifies the policy in logs and metrics.
	Name() string

	// Allow reports the decision. A nil target asks the permission gate only.
	Allow(identity *sec.Identity, method string, target Authored) bool
}

// IsSafeMethod reports whether method is read-only (GET, HEAD, OPTIONS).
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// # Policies

type authenticated struct{}

// Authenticated admits any signed-in caller.
var Authenticated Policy = authenticated{}

func (authenticated) Name() string { return "Authenticated" }

func (authenticated) Allow(identity *sec.Identity, _ string, _ Authored) bool {
	return identity.IsAuthenticated()
}

type administratorOnly struct{}

// AdministratorOnly admits administrators (role admin or superuser) for every method.
var AdministratorOnly Policy = administratorOnly{}

func (administratorOnly) Name() string { return "AdministratorOnly" }

func (administratorOnly) Allow(identity *sec.Identity, _ string, _ Authored) bool {
	return identity.IsAdmin()
}

type moderatorOnly struct{}

// ModeratorOnly admits callers whose stored role is moderator.
var ModeratorOnly Policy = moderatorOnly{}

func (moderatorOnly) Name() string { return "ModeratorOnly" }

func (moderatorOnly) Allow(identity *sec.Identity, _ string, _ Authored) bool {
	return identity.IsModerator()
}

type administratorOrReadOnly struct{}

// AdministratorOrReadOnly lets anyone read and only administrators write.
var AdministratorOrReadOnly Policy = administratorOrReadOnly{}

func (administratorOrReadOnly) Name() string { return "AdministratorOrReadOnly" }

func (administratorOrReadOnly) Allow(identity *sec.Identity, method string, _ Authored) bool {
	return IsSafeMethod(method) || identity.IsAdmin()
}

type authorOrStaffOrReadOnly struct{}

// AuthorOrStaffOrReadOnly lets anyone read, any signed-in caller create, and
// only the author, a moderator or an administrator change an existing object.
var AuthorOrStaffOrReadOnly Policy = authorOrStaffOrReadOnly{}

func (authorOrStaffOrReadOnly) Name() string { return "AuthorOrStaffOrReadOnly" }

func (authorOrStaffOrReadOnly) Allow(identity *sec.Identity, method string, target Authored) bool {
	// Permission gate
	if !IsSafeMethod(method) && !identity.IsAuthenticated() {
		return false
	}
	if target == nil || IsSafeMethod(method) {
		return true
	}

	// Object gate
	return target.AuthoredBy() == identity.UserID || identity.IsStaff()
}

type all struct {
	policies []Policy
}

// All admits a request only when every policy admits it.
func All(policies ...Policy) Policy {
	return all{policies: policies}
}

func (composite all) Name() string {
	name := ""
	for i, p := range composite.policies {
		if i > 0 {
			name += "+"
		}
		name += p.Name()
	}
	return name
}

func (composite all) Allow(identity *sec.Identity, method string, target Authored) bool {
	for _, p := range composite.policies {
		if !p.Allow(identity, method, target) {
			return false
		}
	}
	return true
}

// # Enforcement

/*
Check evaluates p and converts a denial into an [apperr.AppError].

Returns:
  - nil when allowed
  - 401 Unauthorized when the caller is anonymous
  - 403 Forbidden when the caller is known but lacks permission
*/
func Check(p Policy, identity *sec.Identity, method string, target Authored) error {
	gate := "permission"
	if target != nil {
		gate = "object"
	}

	if p.Allow(identity, method, target) {
		metrics.AuthzDecisionsTotal.WithLabelValues(p.Name(), gate, "allow").Inc()
		return nil
	}

	metrics.AuthzDecisionsTotal.WithLabelValues(p.Name(), gate, "deny").Inc()
	if !identity.IsAuthenticated() {
		return apperr.Unauthorized("Authentication credentials were not provided")
	}
	return apperr.Forbidden("You do not have permission to perform this action")
}
