// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/review"
	"github.com/taibuivan/yamdb/internal/platform/ctxutil"
	"github.com/taibuivan/yamdb/internal/platform/sec"
)

// newRouter mounts the handler the way the API server does.
func newRouter(store *memoryStore) http.Handler {
	router := chi.NewRouter()
	router.Mount("/titles/{titleID}/reviews", review.NewHandler(newService(store)).Routes())
	return router
}

func serve(handler http.Handler, identity *sec.Identity, method, path, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	if identity != nil {
		request = request.WithContext(ctxutil.WithIdentity(request.Context(), identity))
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestHandler_ReviewFlow(t *testing.T) {
	store := newMemoryStore(1)
	router := newRouter(store)

	recorder := serve(router, nil, http.MethodPost, "/titles/1/reviews", `{"text":"hi","score":5}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code, "permission gate")

	recorder = serve(router, author, http.MethodPost, "/titles/1/reviews", `{"text":"Great","score":9,"author":"someone-else"}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), `"author":"author"`)
	assert.Contains(t, recorder.Body.String(), `"pub_date":`)

	recorder = serve(router, author, http.MethodPost, "/titles/1/reviews", `{"text":"Again","score":3}`)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Only one review per title is allowed.")

	recorder = serve(router, nil, http.MethodGet, "/titles/1/reviews", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"total":1`)

	recorder = serve(router, nil, http.MethodGet, "/titles/1/reviews/1", "")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = serve(router, stranger, http.MethodPatch, "/titles/1/reviews/1", `{"score":1}`)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = serve(router, moderator, http.MethodPatch, "/titles/1/reviews/1", `{"score":2}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"score":2`)

	recorder = serve(router, stranger, http.MethodPost, "/titles/1/reviews/1/comments", `{"text":"Disagree"}`)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	recorder = serve(router, nil, http.MethodGet, "/titles/1/reviews/1/comments", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"text":"Disagree"`)

	recorder = serve(router, author, http.MethodDelete, "/titles/1/reviews/1", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
}

func TestHandler_NotFoundPaths(t *testing.T) {
	store := newMemoryStore(1, 2)
	router := newRouter(store)

	recorder := serve(router, author, http.MethodPost, "/titles/1/reviews", `{"text":"Great","score":9}`)
	require.Equal(t, http.StatusCreated, recorder.Code)

	tests := []struct {
		name string
		path string
	}{
		{"unknown_title", "/titles/9/reviews"},
		{"malformed_title", "/titles/abc/reviews"},
		{"review_under_other_title", "/titles/2/reviews/1"},
		{"comments_under_other_title", "/titles/2/reviews/1/comments"},
		{"unknown_comment", "/titles/1/reviews/1/comments/77"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := serve(router, nil, http.MethodGet, tt.path, "")
			assert.Equal(t, http.StatusNotFound, recorder.Code, recorder.Body.String())
		})
	}
}
