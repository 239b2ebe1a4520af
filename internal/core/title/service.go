// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/query"
)

// # Service Layer

// Service orchestrates title reads and administrative writes.
type Service struct {
	repository Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger, now: time.Now}
}

// WithClock overrides the clock that bounds the release year. Intended for tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Inputs

// CreateInput is a new title. Category and Genres are slugs.
type CreateInput struct {
	Name        string
	Year        *int
	Description *string
	Category    string
	Genres      []string
}

// UpdateInput is a partial edit; nil fields keep their stored value.
//
// A non-nil empty Category detaches the title from its category. A non-nil
// Genres replaces every genre link, an empty slice removing them all.
type UpdateInput struct {
	Name        *string
	Year        *int
	Description *string
	Category    *string
	Genres      *[]string
}

// # Reads

// List returns a page of titles matching filter.
func (service *Service) List(context context.Context, filter Filter, params pagination.Params) ([]*Title, int, error) {
	titles, total, err := service.repository.List(context, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("title_service_list_failed: %w", err)
	}
	return titles, total, nil
}

// Get returns a single hydrated title.
func (service *Service) Get(context context.Context, id int64) (*Title, error) {
	return service.repository.FindByID(context, id)
}

// # Writes

/*
Create validates and stores a new title with its genre links.

Description: Name and year are required. Category and genre slugs must name
existing terms; each unknown slug is reported on its field. The title and its
links are written in one transaction.

Returns:
  - *Title: The hydrated title as subsequently read
  - error: ValidationError or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Title, error) {
	record := &Record{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		ReplaceGenres: true,
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, record.Name)
	validator.Custom(FieldYear, input.Year == nil, "This field is required.")
	if input.Year != nil {
		record.Year = *input.Year
	}

	if err := service.resolve(context, validator, record, strings.TrimSpace(input.Category), input.Genres); err != nil {
		return nil, err
	}
	service.checkFields(validator, record, input.Year != nil)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Create(context, record); err != nil {
		return nil, service.writeError("create", err)
	}

	service.logger.InfoContext(context, "title_created",
		slog.Int64("title_id", record.ID),
		slog.String("name", record.Name),
	)

	return service.repository.FindByID(context, record.ID)
}

/*
Update applies a partial edit to a title.

Description: The stored title is merged with input and validated as a whole.
Genre links are only touched when Genres is present.
*/
func (service *Service) Update(context context.Context, id int64, input UpdateInput) (*Title, error) {
	current, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	record := &Record{
		ID:          current.ID,
		Name:        current.Name,
		Year:        current.Year,
		Description: current.Description,
		CategoryID:  current.CategoryID,
	}
	if input.Name != nil {
		record.Name = strings.TrimSpace(*input.Name)
	}
	if input.Year != nil {
		record.Year = *input.Year
	}
	if input.Description != nil {
		record.Description = input.Description
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, record.Name)

	category := ""
	if input.Category != nil {
		category = strings.TrimSpace(*input.Category)
		if category == "" {
			record.CategoryID = nil
		}
	}

	var genres []string
	if input.Genres != nil {
		genres = *input.Genres
		record.ReplaceGenres = true
	}

	if err := service.resolve(context, validator, record, category, genres); err != nil {
		return nil, err
	}
	service.checkFields(validator, record, true)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.Update(context, record); err != nil {
		return nil, service.writeError("update", err)
	}

	service.logger.InfoContext(context, "title_updated", slog.Int64("title_id", record.ID))

	return service.repository.FindByID(context, record.ID)
}

// Delete removes a title together with everything attached to it.
func (service *Service) Delete(context context.Context, id int64) error {
	if err := service.repository.Delete(context, id); err != nil {
		return err
	}

	service.logger.InfoContext(context, "title_deleted", slog.Int64("title_id", id))
	return nil
}

// # Internal Helpers

// checkFields applies the length and year rules to the merged record.
func (service *Service) checkFields(validator *validate.Validator, record *Record, hasYear bool) {
	validator.MaxLen(FieldName, record.Name, NameMaxLength)
	if hasYear {
		currentYear := service.now().Year()
		validator.Custom(FieldYear, record.Year < 0, "Ensure this value is greater than or equal to 0.").
			Custom(FieldYear, record.Year > currentYear, "Year cannot be in the future.")
	}
}

// resolve turns category and genre slugs into IDs on record. Unknown slugs
// become field errors on validator.
func (service *Service) resolve(context context.Context, validator *validate.Validator, record *Record, category string, genres []string) error {
	if category != "" {
		ids, err := service.repository.CategoryIDs(context, []string{category})
		if err != nil {
			return fmt.Errorf("title_service_resolve_category_failed: %w", err)
		}
		id, ok := ids[category]
		validator.Custom(FieldCategory, !ok, unknownSlug(category))
		if ok {
			record.CategoryID = &id
		}
	}

	if !record.ReplaceGenres {
		return nil
	}

	slugs := query.Dedupe(genres)
	ids, err := service.repository.GenreIDs(context, slugs)
	if err != nil {
		return fmt.Errorf("title_service_resolve_genres_failed: %w", err)
	}

	record.GenreIDs = make([]int64, 0, len(slugs))
	for _, slug := range slugs {
		id, ok := ids[slug]
		validator.Custom(FieldGenre, !ok, unknownSlug(slug))
		if ok {
			record.GenreIDs = append(record.GenreIDs, id)
		}
	}
	return nil
}

// writeError maps storage failures of a title write. A foreign key violation
// means a category or genre was deleted between resolution and commit.
func (service *Service) writeError(operation string, err error) error {
	switch {
	case apperr.IsNotFound(err):
		return err
	case dberr.IsForeignKeyViolation(err):
		return apperr.ValidationError("Validation failed",
			apperr.FieldError{Field: FieldCategory, Message: "A referenced category or genre no longer exists."},
		).WithCause(err)
	}
	return fmt.Errorf("title_service_%s_failed: %w", operation, err)
}

func unknownSlug(slug string) string {
	return fmt.Sprintf("Object with slug=%s does not exist.", slug)
}
