// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

const (
	resourceTitle   = "Title"
	resourceReview  = "Review"
	resourceComment = "Comment"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed review store.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// TitleExists implements [Repository].
func (repository *PostgresRepository) TitleExists(context context.Context, titleID int64) error {
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)", schema.Title.Table, schema.Title.ID)

	var exists bool
	if err := repository.pool.QueryRow(context, query, titleID).Scan(&exists); err != nil {
		return fmt.Errorf("postgres_review_repo_title_exists_failed: %w", err)
	}
	if !exists {
		return apperr.NotFound(resourceTitle)
	}
	return nil
}

// # Reviews

// selectReviews joins the author so the username is read with the row.
func selectReviews() string {
	return fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, a.%s, r.%s, r.%s, r.%s, COUNT(*) OVER() AS total_count
		FROM %s r
		JOIN %s a ON a.%s = r.%s
		WHERE TRUE`,
		schema.Review.ID, schema.Review.TitleID, schema.Review.AuthorID, schema.UserAccount.Username,
		schema.Review.Text, schema.Review.Score, schema.Review.PubDate,
		schema.Review.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.Review.AuthorID,
	)
}

func scanReview(row pgx.Row) (*Review, int, error) {
	review := &Review{}
	var totalCount int
	err := row.Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.Author,
		&review.Text,
		&review.Score,
		&review.PubDate,
		&totalCount,
	)
	return review, totalCount, err
}

/*
ListReviews returns a page of reviews for a title, newest first.

Parameters:
  - context: context.Context
  - titleID: int64
  - filter: Filter (author username)
  - params: pagination.Params

Returns:
  - []*Review: The page
  - int: Total number of matching reviews
  - error: Execution failures
*/
func (repository *PostgresRepository) ListReviews(context context.Context, titleID int64, filter Filter, params pagination.Params) ([]*Review, int, error) {
	var queryBuilder strings.Builder
	args := []any{titleID}
	argID := 2

	queryBuilder.WriteString(selectReviews())
	queryBuilder.WriteString(fmt.Sprintf(" AND r.%s = $1", schema.Review.TitleID))

	if filter.Author != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND a.%s = $%d", schema.UserAccount.Username, argID))
		args = append(args, filter.Author)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY r.%s DESC, r.%s DESC LIMIT $%d OFFSET $%d",
		schema.Review.PubDate, schema.Review.ID, argID, argID+1))
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_review_repo_list_failed: %w", err)
	}
	defer rows.Close()

	reviews := []*Review{}
	var totalCount int
	for rows.Next() {
		review, total, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_review_repo_scan_failed: %w", err)
		}
		totalCount = total
		reviews = append(reviews, review)
	}

	return reviews, totalCount, rows.Err()
}

// FindReview implements [Repository].
func (repository *PostgresRepository) FindReview(context context.Context, titleID, reviewID int64) (*Review, error) {
	query := selectReviews() + fmt.Sprintf(" AND r.%s = $1 AND r.%s = $2", schema.Review.ID, schema.Review.TitleID)

	review, _, err := scanReview(repository.pool.QueryRow(context, query, reviewID, titleID))
	if err != nil {
		return nil, dberr.Wrap(err, resourceReview)
	}
	return review, nil
}

/*
CreateReview inserts a review, relying on review_title_author_key.

Description: ON CONFLICT DO NOTHING turns a duplicate into an empty result
instead of an error, so the one-review-per-title rule is decided atomically
by the index even when two requests race.

Returns:
  - bool: false when the author already reviewed this title
  - error: apperr.NotFound when the title was deleted, execution failures
*/
func (repository *PostgresRepository) CreateReview(context context.Context, review *Review) (bool, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT %s DO NOTHING
		RETURNING %s, %s`,
		schema.Review.Table,
		schema.Review.TitleID, schema.Review.AuthorID, schema.Review.Text, schema.Review.Score,
		schema.Review.TitleAuthorKey,
		schema.Review.ID, schema.Review.PubDate,
	)

	err := repository.pool.QueryRow(context, query,
		review.TitleID, review.AuthorID, review.Text, review.Score,
	).Scan(&review.ID, &review.PubDate)

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, pgx.ErrNoRows):
		return false, nil
	}

	wrapped := dberr.Wrap(err, resourceReview)
	if dberr.IsForeignKeyViolation(wrapped) {
		return false, apperr.NotFound(resourceTitle).WithCause(err)
	}
	return false, wrapped
}

// UpdateReview implements [Repository].
func (repository *PostgresRepository) UpdateReview(context context.Context, review *Review) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1",
		schema.Review.Table, schema.Review.Text, schema.Review.Score, schema.Review.ID)

	return repository.execOne(context, query, resourceReview, review.ID, review.Text, review.Score)
}

// DeleteReview implements [Repository]. Comments go through ON DELETE CASCADE.
func (repository *PostgresRepository) DeleteReview(context context.Context, reviewID int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Review.Table, schema.Review.ID)
	return repository.execOne(context, query, resourceReview, reviewID)
}

// # Comments

func selectComments() string {
	return fmt.Sprintf(`
		SELECT c.%s, c.%s, c.%s, a.%s, c.%s, c.%s, COUNT(*) OVER() AS total_count
		FROM %s c
		JOIN %s a ON a.%s = c.%s
		WHERE TRUE`,
		schema.Comment.ID, schema.Comment.ReviewID, schema.Comment.AuthorID, schema.UserAccount.Username,
		schema.Comment.Text, schema.Comment.PubDate,
		schema.Comment.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.Comment.AuthorID,
	)
}

func scanComment(row pgx.Row) (*Comment, int, error) {
	comment := &Comment{}
	var totalCount int
	err := row.Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.AuthorID,
		&comment.Author,
		&comment.Text,
		&comment.PubDate,
		&totalCount,
	)
	return comment, totalCount, err
}

// ListComments implements [Repository].
func (repository *PostgresRepository) ListComments(context context.Context, reviewID int64, filter Filter, params pagination.Params) ([]*Comment, int, error) {
	var queryBuilder strings.Builder
	args := []any{reviewID}
	argID := 2

	queryBuilder.WriteString(selectComments())
	queryBuilder.WriteString(fmt.Sprintf(" AND c.%s = $1", schema.Comment.ReviewID))

	if filter.Author != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND a.%s = $%d", schema.UserAccount.Username, argID))
		args = append(args, filter.Author)
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY c.%s DESC, c.%s DESC LIMIT $%d OFFSET $%d",
		schema.Comment.PubDate, schema.Comment.ID, argID, argID+1))
	args = append(args, params.Limit, params.Offset())

	rows, err := repository.pool.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_comment_repo_list_failed: %w", err)
	}
	defer rows.Close()

	comments := []*Comment{}
	var totalCount int
	for rows.Next() {
		comment, total, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_comment_repo_scan_failed: %w", err)
		}
		totalCount = total
		comments = append(comments, comment)
	}

	return comments, totalCount, rows.Err()
}

// FindComment implements [Repository].
func (repository *PostgresRepository) FindComment(context context.Context, reviewID, commentID int64) (*Comment, error) {
	query := selectComments() + fmt.Sprintf(" AND c.%s = $1 AND c.%s = $2", schema.Comment.ID, schema.Comment.ReviewID)

	comment, _, err := scanComment(repository.pool.QueryRow(context, query, commentID, reviewID))
	if err != nil {
		return nil, dberr.Wrap(err, resourceComment)
	}
	return comment, nil
}

// CreateComment implements [Repository].
func (repository *PostgresRepository) CreateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s) VALUES ($1, $2, $3) RETURNING %s, %s`,
		schema.Comment.Table,
		schema.Comment.ReviewID, schema.Comment.AuthorID, schema.Comment.Text,
		schema.Comment.ID, schema.Comment.PubDate,
	)

	err := repository.pool.QueryRow(context, query, comment.ReviewID, comment.AuthorID, comment.Text).
		Scan(&comment.ID, &comment.PubDate)
	if err == nil {
		return nil
	}

	wrapped := dberr.Wrap(err, resourceComment)
	if dberr.IsForeignKeyViolation(wrapped) {
		return apperr.NotFound(resourceReview).WithCause(err)
	}
	return wrapped
}

// UpdateComment implements [Repository].
func (repository *PostgresRepository) UpdateComment(context context.Context, comment *Comment) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $2 WHERE %s = $1",
		schema.Comment.Table, schema.Comment.Text, schema.Comment.ID)
	return repository.execOne(context, query, resourceComment, comment.ID, comment.Text)
}

// DeleteComment implements [Repository].
func (repository *PostgresRepository) DeleteComment(context context.Context, commentID int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.Comment.Table, schema.Comment.ID)
	return repository.execOne(context, query, resourceComment, commentID)
}

// execOne runs a statement expected to touch exactly one row.
func (repository *PostgresRepository) execOne(context context.Context, query, resource string, args ...any) error {
	tag, err := repository.pool.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, resource)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, resource)
	}
	return nil
}
