// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/yamdb/internal/platform/middleware"
	"github.com/taibuivan/yamdb/internal/platform/policy"
	requestutil "github.com/taibuivan/yamdb/internal/platform/request"
	"github.com/taibuivan/yamdb/internal/platform/respond"
	"github.com/taibuivan/yamdb/pkg/pagination"
	"github.com/taibuivan/yamdb/pkg/pointer"
	"github.com/taibuivan/yamdb/pkg/query"
)

// Handler implements the HTTP layer for titles.
type Handler struct {
	titleService *Service
}

// NewHandler constructs a new title [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{titleService: service}
}

// Routes returns a [chi.Router] for the title catalogue.
//
// # Endpoints
//   - GET    /          : Filtered listing (category, genre, name, year)
//   - POST   /          : Create (administrator)
//   - GET    /{titleID} : Read
//   - PATCH  /{titleID} : Partial edit (administrator)
//   - DELETE /{titleID} : Delete with reviews and comments (administrator)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.Authorize(policy.AdministratorOrReadOnly))
	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{titleID}", handler.get)
	router.Patch("/{titleID}", handler.update)
	router.Delete("/{titleID}", handler.delete)

	return router
}

// # Request Payloads

type createRequest struct {
	Name        string   `json:"name"        validate:"required,max=256"`
	Year        *int     `json:"year"        validate:"required"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	Genre       []string `json:"genre"`
}

type updateRequest struct {
	Name        *string   `json:"name"`
	Year        *int      `json:"year"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Genre       *[]string `json:"genre"`
}

// # Endpoints

/*
GET /api/v1/titles.

Request:
  - Query: category (slug), genre (slug, repeatable or comma separated),
    name (fragment), year, page, limit

Response:
  - 200: []Title with pagination meta, ordered by name
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	values := request.URL.Query()
	filter := Filter{
		Category: values.Get("category"),
		Genres:   query.StringSlice(values, "genre"),
		Name:     values.Get("name"),
	}
	if year, ok := query.OptionalInt(values, "year"); ok {
		filter.Year = pointer.To(year)
	}

	params := pagination.FromRequest(request)
	titles, total, err := handler.titleService.List(request.Context(), filter, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, titles, pagination.NewMeta(params.Page, params.Limit, total))
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.Int64Param(request, "titleID", resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.titleService.Get(request.Context(), titleID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

/*
POST /api/v1/titles.

Response:
  - 201: Title (read model)
  - 400: Validation failure, future year or unknown category/genre slug
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeAndValidate(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.titleService.Create(request.Context(), CreateInput{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    input.Category,
		Genres:      input.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, title)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.Int64Param(request, "titleID", resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	title, err := handler.titleService.Update(request.Context(), titleID, UpdateInput{
		Name:        input.Name,
		Year:        input.Year,
		Description: input.Description,
		Category:    input.Category,
		Genres:      input.Genre,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, title)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	titleID, err := requestutil.Int64Param(request, "titleID", resourceTitle)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.titleService.Delete(request.Context(), titleID); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
