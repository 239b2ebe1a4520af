// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package review handles the user-generated content attached to titles:
scored reviews and the comments posted under them.

# Ownership

Every review and comment is authored by the caller who created it; the
author is never taken from the payload. Edits and deletions go through the
object gate of [policy.AuthorOrStaffOrReadOnly] once the target is loaded.

# Uniqueness

A user reviews a title at most once. The rule is enforced by the
review_title_author_key unique index, so it holds under concurrent posts.
*/
package review

import (
	"context"
	"time"

	"github.com/taibuivan/yamdb/pkg/pagination"
)

// # Domain Entities

// Review is a scored opinion of one title.
type Review struct {
	ID       int64     `json:"id"`
	TitleID  int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	Score    int       `json:"score"`
	PubDate  time.Time `json:"pub_date"`
}

// AuthoredBy implements [policy.Authored].
func (review *Review) AuthoredBy() int64 { return review.AuthorID }

// Comment is a reply posted under a review.
type Comment struct {
	ID       int64     `json:"id"`
	ReviewID int64     `json:"-"`
	AuthorID int64     `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}

// AuthoredBy implements [policy.Authored].
func (comment *Comment) AuthoredBy() int64 { return comment.AuthorID }

// Filter narrows review and comment listings.
type Filter struct {
	// Author is an exact username.
	Author string
}

// # Rules

const (
	ScoreMin = 1
	ScoreMax = 10

	FieldText  = "text"
	FieldScore = "score"
	FieldTitle = "title"

	MsgScoreRange        = "Score must be an integer between 1 and 10."
	MsgOneReviewPerTitle = "Only one review per title is allowed."
)

// # Repository Contracts

// Repository is the persistence contract for reviews and comments.
type Repository interface {
	// TitleExists returns [apperr.NotFound] when the title does not exist.
	TitleExists(context context.Context, titleID int64) error

	// ListReviews returns one page of a title's reviews, newest first.
	ListReviews(context context.Context, titleID int64, filter Filter, params pagination.Params) ([]*Review, int, error)

	// FindReview returns the review only if it belongs to titleID.
	FindReview(context context.Context, titleID, reviewID int64) (*Review, error)

	/*
		CreateReview inserts review unless its author already reviewed the title.

		Returns:
		  - bool: false when the (title, author) pair already exists
		  - error: apperr.NotFound when the title vanished, execution failures
	*/
	CreateReview(context context.Context, review *Review) (bool, error)

	// UpdateReview persists Text and Score.
	UpdateReview(context context.Context, review *Review) error

	// DeleteReview removes the review and its comments.
	DeleteReview(context context.Context, reviewID int64) error

	// ListComments returns one page of a review's comments, newest first.
	ListComments(context context.Context, reviewID int64, filter Filter, params pagination.Params) ([]*Comment, int, error)

	// FindComment returns the comment only if it belongs to reviewID.
	FindComment(context context.Context, reviewID, commentID int64) (*Comment, error)

	// CreateComment inserts comment, filling ID and PubDate.
	CreateComment(context context.Context, comment *Comment) error

	// UpdateComment persists Text.
	UpdateComment(context context.Context, comment *Comment) error

	// DeleteComment removes the comment.
	DeleteComment(context context.Context, commentID int64) error
}
