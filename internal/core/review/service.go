// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/policy"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/platform/validate"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Service Layer

// Service implements the review and comment use cases.
//
// Parents always come from the URL: a review is addressed through its
// title and a comment through its title and review. A review requested under
// the wrong title is NOT_FOUND.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger}
}

// ReviewInput is a review payload. Nil fields are absent; on create both
// are required.
type ReviewInput struct {
	Text  *string
	Score *int
}

// CommentInput is a comment payload.
type CommentInput struct {
	Text *string
}

// # Reviews

// ListReviews returns a page of a title's reviews.
func (service *Service) ListReviews(context context.Context, titleID int64, filter Filter, params pagination.Params) ([]*Review, int, error) {
	if err := service.repository.TitleExists(context, titleID); err != nil {
		return nil, 0, err
	}

	reviews, total, err := service.repository.ListReviews(context, titleID, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("review_service_list_failed: %w", err)
	}
	return reviews, total, nil
}

// GetReview returns a review of titleID.
func (service *Service) GetReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	return service.repository.FindReview(context, titleID, reviewID)
}

/*
CreateReview publishes the caller's review of a title.

Description: The author is the caller. The title must exist. A second review
by the same author is rejected by the unique index and reported on the title
field, whether or not the two requests raced.

Parameters:
  - context: context.Context
  - identity: *sec.Identity (the author)
  - titleID: int64 (from the URL)
  - input: ReviewInput

Returns:
  - *Review: Created entity
  - error: NotFound, ValidationError or storage errors
*/
func (service *Service) CreateReview(context context.Context, identity *sec.Identity, titleID int64, input ReviewInput) (*Review, error) {
	if err := service.repository.TitleExists(context, titleID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	text := checkText(validator, input.Text)
	score := checkScore(validator, input.Score)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	review := &Review{
		TitleID:  titleID,
		AuthorID: identity.UserID,
		Author:   identity.Username,
		Text:     text,
		Score:    score,
	}

	created, err := service.repository.CreateReview(context, review)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}
	if !created {
		return nil, apperr.FieldInvalid(FieldTitle, MsgOneReviewPerTitle)
	}

	service.logger.InfoContext(context, "review_created",
		slog.Int64("review_id", review.ID),
		slog.Int64("title_id", titleID),
		slog.Int64("author_id", identity.UserID),
	)
	return review, nil
}

/*
UpdateReview edits text and score of a review.

Description: The object gate runs on the loaded review before the payload is
validated.
*/
func (service *Service) UpdateReview(context context.Context, identity *sec.Identity, titleID, reviewID int64, input ReviewInput) (*Review, error) {
	review, err := service.repository.FindReview(context, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(policy.AuthorOrStaffOrReadOnly, identity, http.MethodPatch, review); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Text != nil {
		review.Text = checkText(validator, input.Text)
	}
	if input.Score != nil {
		review.Score = checkScore(validator, input.Score)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateReview(context, review); err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("review_service_update_failed: %w", err)
	}

	service.logger.InfoContext(context, "review_updated", slog.Int64("review_id", review.ID))
	return review, nil
}

// DeleteReview removes a review and its comments after the object gate.
func (service *Service) DeleteReview(context context.Context, identity *sec.Identity, titleID, reviewID int64) error {
	review, err := service.repository.FindReview(context, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := policy.Check(policy.AuthorOrStaffOrReadOnly, identity, http.MethodDelete, review); err != nil {
		return err
	}

	if err := service.repository.DeleteReview(context, review.ID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "review_deleted",
		slog.Int64("review_id", review.ID),
		slog.Int64("deleted_by", identity.UserID),
	)
	return nil
}

// # Comments

// ListComments returns a page of comments under a review of titleID.
func (service *Service) ListComments(context context.Context, titleID, reviewID int64, filter Filter, params pagination.Params) ([]*Comment, int, error) {
	if _, err := service.repository.FindReview(context, titleID, reviewID); err != nil {
		return nil, 0, err
	}

	comments, total, err := service.repository.ListComments(context, reviewID, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("comment_service_list_failed: %w", err)
	}
	return comments, total, nil
}

// GetComment returns a comment, checking the whole title/review/comment path.
func (service *Service) GetComment(context context.Context, titleID, reviewID, commentID int64) (*Comment, error) {
	if _, err := service.repository.FindReview(context, titleID, reviewID); err != nil {
		return nil, err
	}
	return service.repository.FindComment(context, reviewID, commentID)
}

// CreateComment posts the caller's comment under a review.
func (service *Service) CreateComment(context context.Context, identity *sec.Identity, titleID, reviewID int64, input CommentInput) (*Comment, error) {
	if _, err := service.repository.FindReview(context, titleID, reviewID); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	text := checkText(validator, input.Text)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		ReviewID: reviewID,
		AuthorID: identity.UserID,
		Author:   identity.Username,
		Text:     text,
	}
	if err := service.repository.CreateComment(context, comment); err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("comment_service_create_failed: %w", err)
	}

	service.logger.InfoContext(context, "comment_created",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("review_id", reviewID),
	)
	return comment, nil
}

// UpdateComment edits the text of a comment after the object gate.
func (service *Service) UpdateComment(context context.Context, identity *sec.Identity, titleID, reviewID, commentID int64, input CommentInput) (*Comment, error) {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := policy.Check(policy.AuthorOrStaffOrReadOnly, identity, http.MethodPatch, comment); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Text != nil {
		comment.Text = checkText(validator, input.Text)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.repository.UpdateComment(context, comment); err != nil {
		if apperr.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("comment_service_update_failed: %w", err)
	}
	return comment, nil
}

// DeleteComment removes a comment after the object gate.
func (service *Service) DeleteComment(context context.Context, identity *sec.Identity, titleID, reviewID, commentID int64) error {
	comment, err := service.GetComment(context, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := policy.Check(policy.AuthorOrStaffOrReadOnly, identity, http.MethodDelete, comment); err != nil {
		return err
	}

	if err := service.repository.DeleteComment(context, comment.ID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "comment_deleted",
		slog.Int64("comment_id", comment.ID),
		slog.Int64("deleted_by", identity.UserID),
	)
	return nil
}

// # Validation

// checkText requires non-blank text and returns it trimmed.
func checkText(validator *validate.Validator, text *string) string {
	if text == nil {
		validator.Custom(FieldText, true, "This field is required.")
		return ""
	}
	value := strings.TrimSpace(*text)
	validator.Required(FieldText, value)
	return value
}

// checkScore requires a score within [ScoreMin, ScoreMax].
func checkScore(validator *validate.Validator, score *int) int {
	if score == nil {
		validator.Custom(FieldScore, true, "This field is required.")
		return 0
	}
	validator.Custom(FieldScore, *score < ScoreMin || *score > ScoreMax, MsgScoreRange)
	return *score
}
