// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/middleware"
	"github.com/taibuivan/yamdb/internal/platform/policy"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// Handler implements the HTTP layer for reviews and comments.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

/*
Routes returns the router mounted at /titles/{titleID}/reviews.

# Endpoints
  - GET    /                                : Reviews of the title
  - POST   /                                : Publish a review (authenticated)
  - GET    /{reviewID}                      : One review
  - PATCH  /{reviewID}                      : Edit (author, moderator, administrator)
  - DELETE /{reviewID}                      : Delete (author, moderator, administrator)
  - GET    /{reviewID}/comments             : Comments of the review
  - POST   /{reviewID}/comments             : Post a comment (authenticated)
  - GET    /{reviewID}/comments/{commentID} : One comment
  - PATCH  /{reviewID}/comments/{commentID} : Edit (author, moderator, administrator)
  - DELETE /{reviewID}/comments/{commentID} : Delete (author, moderator, administrator)

The permission gate runs here; the object gate runs in the service once the
review or comment is loaded.
*/
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.Authorize(policy.AuthorOrStaffOrReadOnly))

	router.Get("/", handler.listReviews)
	router.Post("/", handler.createReview)
	router.Route("/{reviewID}", func(r chi.Router) {
		r.Get("/", handler.getReview)
		r.Patch("/", handler.updateReview)
		r.Delete("/", handler.deleteReview)

		r.Get("/comments", handler.listComments)
		r.Post("/comments", handler.createComment)
		r.Get("/comments/{commentID}", handler.getComment)
		r.Patch("/comments/{commentID}", handler.updateComment)
		r.Delete("/comments/{commentID}", handler.deleteComment)
	})

	return router
}

// # Request Payloads

type reviewRequest struct {
	Text  *string `json:"text"`
	Score *int    `json:"score"`
}

type commentRequest struct {
	Text *string `json:"text"`
}

// # Path Resolution

// pathIDs parses the parent identifiers present in the URL. Later names are
// only parsed when earlier ones are valid.
func pathIDs(request *http.Request, names ...string) ([]int64, error) {
	resources := map[string]string{
		"titleID":   resourceTitle,
		"reviewID":  resourceReview,
		"commentID": resourceComment,
	}

	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, err := requestutil.Int64Param(request, name, resources[name])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func listFilter(request *http.Request) Filter {
	return Filter{Author: request.URL.Query().Get("author")}
}

// # Review Endpoints

/*
GET /api/v1/titles/{titleID}/reviews.

Request:
  - Query: author (username), page, limit

Response:
  - 200: []Review with pagination meta, newest first
  - 404: Unknown title
*/
func (handler *Handler) listReviews(writer http.ResponseWriter, request *http.Request) {
	ids, err := pathIDs(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	reviews, total, err := handler.reviewService.ListReviews(request.Context(), ids[0], listFilter(request), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, reviews, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
POST /api/v1/titles/{titleID}/reviews.

Response:
  - 201: Review
  - 400: Missing text, score out of range, or a second review of the title
  - 401: Authentication required
  - 404: Unknown title
*/
func (handler *Handler) createReview(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	ids, err := pathIDs(request, "titleID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.CreateReview(request.Context(), identity, ids[0], ReviewInput{
		Text:  input.Text,
		Score: input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, review)
}

func (handler *Handler) getReview(writer http.ResponseWriter, request *http.Request) {
	ids, err := pathIDs(request, "titleID", "reviewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.GetReview(request.Context(), ids[0], ids[1])
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

func (handler *Handler) updateReview(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	ids, err := pathIDs(request, "titleID", "reviewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input reviewRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	review, err := handler.reviewService.UpdateReview(request.Context(), identity, ids[0], ids[1], ReviewInput{
		Text:  input.Text,
		Score: input.Score,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, review)
}

func (handler *Handler) deleteReview(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	ids, err := pathIDs(request, "titleID", "reviewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.DeleteReview(request.Context(), identity, ids[0], ids[1]); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Comment Endpoints

func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	ids, err := pathIDs(request, "titleID", "reviewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	params := pagination.FromRequest(request)
	comments, total, err := handler.reviewService.ListComments(request.Context(), ids[0], ids[1], listFilter(request), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Paginated(writer, comments, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) createComment(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	ids, err := pathIDs(request, "titleID", "reviewID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.reviewService.CreateComment(request.Context(), identity, ids[0], ids[1], CommentInput{Text: input.Text})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

func (handler *Handler) getComment(writer http.ResponseWriter, request *http.Request) {
	ids, err := pathIDs(request, "titleID", "reviewID", "commentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.reviewService.GetComment(request.Context(), ids[0], ids[1], ids[2])
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) updateComment(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	ids, err := pathIDs(request, "titleID", "reviewID", "commentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.reviewService.UpdateComment(request.Context(), identity, ids[0], ids[1], ids[2], CommentInput{Text: input.Text})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comment)
}

func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	ids, err := pathIDs(request, "titleID", "reviewID", "commentID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.reviewService.DeleteComment(request.Context(), identity, ids[0], ids[1], ids[2]); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
