// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package title manages the works users review: films, books, songs.

A title belongs to at most one category and to any number of genres. Its
rating is never stored; every read derives it from the review scores so that
it is always consistent with the reviews that exist at that moment.
*/
package title

import (
	"context"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Title is the read model returned by every title endpoint.
type Title struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Rating      *float64 `json:"rating"`
	Description *string  `json:"description"`

	Genres   []taxonomy.Term `json:"genre"`
	Category *taxonomy.Term  `json:"category"`

	// CategoryID mirrors Category for partial updates.
	CategoryID *int64 `json:"-"`
}

// Rating computes the mean review score. It is nil when there are no
// reviews, which is distinct from a mean of zero.
func Rating(count, sum int64) *float64 {
	if count == 0 {
		return nil
	}
	mean := float64(sum) / float64(count)
	return &mean
}

// Filter narrows a title listing. Zero values do not filter.
type Filter struct {
	// Category is a category slug.
	Category string
	// Genres matches titles linked to any of these genre slugs.
	Genres []string
	// Name is a case-insensitive fragment of the title name.
	Name string
	// Year is an exact release year.
	Year *int
}

// Record is the stored shape of a title write.
type Record struct {
	ID          int64
	Name        string
	Year        int
	Description *string
	CategoryID  *int64

	// GenreIDs replaces the genre links when ReplaceGenres is set.
	GenreIDs      []int64
	ReplaceGenres bool
}

// # Field Names & Limits

const (
	FieldName        = "name"
	FieldYear        = "year"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldGenre       = "genre"

	// NameMaxLength bounds Title.Name.
	NameMaxLength = 256
)

// # Repository Contracts

// Repository is the persistence contract for titles.
type Repository interface {
	/*
		List returns one page of titles matching filter, ordered by name.

		Returns:
		  - []*Title: The hydrated page
		  - int: Total count matching filter
		  - error: Execution failures
	*/
	List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error)

	// FindByID returns the hydrated title or [apperr.NotFound].
	FindByID(context context.Context, id int64) (*Title, error)

	// Create inserts the title and its genre links atomically, filling ID.
	Create(context context.Context, record *Record) error

	// Update rewrites the title and, when requested, its genre links atomically.
	Update(context context.Context, record *Record) error

	// Delete removes the title with its genre links, reviews and comments.
	Delete(context context.Context, id int64) error

	// CategoryIDs maps each known category slug to its ID. Unknown slugs are absent.
	CategoryIDs(context context.Context, slugs []string) (map[string]int64, error)

	// GenreIDs maps each known genre slug to its ID. Unknown slugs are absent.
	GenreIDs(context context.Context, slugs []string) (map[string]int64, error)
}
