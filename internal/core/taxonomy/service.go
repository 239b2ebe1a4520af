// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package taxonomy

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/slug"
)

// Service implements the vocabulary use cases for one [Repository].
type Service struct {
	repository Repository
	resource   string
	logger     *slog.Logger
}

// NewService binds the use cases to repository. resource names the
// vocabulary in logs ("Category", "Genre").
func NewService(repository Repository, resource string, logger *slog.Logger) *Service {
	return &Service{repository: repository, resource: resource, logger: logger}
}

// CreateInput is the payload of a new term. An empty Slug is derived from Name.
type CreateInput struct {
	Name string
	Slug string
}

func (service *Service) List(context context.Context, search string, params pagination.Params) ([]*Term, int, error) {
	terms, total, err := service.repository.List(context, search, params)
	if err != nil {
		return nil, 0, fmt.Errorf("taxonomy_service_list_failed: %w", err)
	}
	return terms, total, nil
}

/*
Create validates and stores a new term.

Description: The slug must be unique within the vocabulary. The pre-check and
the unique index report a duplicate with the same field error.
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Term, error) {
	term := &Term{
		Name: strings.TrimSpace(input.Name),
		Slug: strings.TrimSpace(input.Slug),
	}
	if term.Slug == "" {
		term.Slug = slug.From(term.Name)
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, term.Name).
		MaxLen(FieldName, term.Name, NameMaxLength).
		Required(FieldSlug, term.Slug).
		MaxLen(FieldSlug, term.Slug, slug.MaxLength)
	if term.Slug != "" {
		validator.Slug(FieldSlug, term.Slug)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	_, err := service.repository.FindBySlug(context, term.Slug)
	switch {
	case err == nil:
		return nil, apperr.FieldInvalid(FieldSlug, MsgSlugTaken)
	case !apperr.IsNotFound(err):
		return nil, fmt.Errorf("taxonomy_service_slug_check_failed: %w", err)
	}

	if err := service.repository.Create(context, term); err != nil {
		if dberr.IsUniqueViolation(err, "") {
			return nil, apperr.FieldInvalid(FieldSlug, MsgSlugTaken)
		}
		return nil, fmt.Errorf("taxonomy_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "term_created",
		slog.String("resource", service.resource),
		slog.String("slug", term.Slug),
	)
	return term, nil
}

func (service *Service) Delete(context context.Context, slug string) error {
	if err := service.repository.DeleteBySlug(context, slug); err != nil {
		return err
	}

	service.logger.InfoContext(context, "term_deleted",
		slog.String("resource", service.resource),
		slog.String("slug", slug),
	)
	return nil
}
