// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package taxonomy manages the flat vocabularies titles are classified by:
categories ("Films", "Books") and genres ("Drama", "Rock").

Both vocabularies have the same shape and rules, so a single store, service
and handler serve either one, parameterised by its [schema.TermTable].
*/
package taxonomy

import (
	"context"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Term is one category or genre. It is addressed by Slug in URLs.
type Term struct {
	ID   int64  `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

const (
	// NameMaxLength bounds Term.Name.
	NameMaxLength = 256

	// FieldName and FieldSlug name the payload fields in validation errors.
	FieldName = "name"
	FieldSlug = "slug"

	// MsgSlugTaken is reported when the slug is already in use.
	MsgSlugTaken = "This slug is already in use."
)

// Repository is the persistence contract for one vocabulary.
type Repository interface {
	// List returns one page of terms whose name contains search, ordered by slug.
	List(context context.Context, search string, params pagination.Params) ([]*Term, int, error)

	// FindBySlug returns [apperr.NotFound] when no term has slug.
	FindBySlug(context context.Context, slug string) (*Term, error)

	// Create inserts term and fills its ID.
	Create(context context.Context, term *Term) error

	// DeleteBySlug removes the term. Links from titles are released by the
	// foreign keys.
	DeleteBySlug(context context.Context, slug string) error
}
