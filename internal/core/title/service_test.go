// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/pkg/pointer"
)

func details(t *testing.T, err error) map[string][]string {
	t.Helper()
	appErr := apperr.As(err)
	require.NotNil(t, appErr, "expected an AppError, got %v", err)
	fields := make(map[string][]string)
	for _, detail := range appErr.Details {
		fields[detail.Field] = append(fields[detail.Field], detail.Message)
	}
	return fields
}

func TestRating(t *testing.T) {
	assert.Nil(t, title.Rating(0, 0))
	require.NotNil(t, title.Rating(2, 15))
	assert.InDelta(t, 7.5, *title.Rating(2, 15), 1e-9)
}

func TestService_Create(t *testing.T) {
	repo := newMemoryTitles()
	service := newService(repo)

	created, err := service.Create(context.Background(), title.CreateInput{
		Name:     "The Godfather",
		Year:     pointer.To(1972),
		Category: "films",
		Genres:   []string{"drama", "drama", "comedy"},
	})
	require.NoError(t, err)

	assert.Equal(t, "The Godfather", created.Name)
	require.NotNil(t, created.Category)
	assert.Equal(t, "films", created.Category.Slug)
	require.Len(t, created.Genres, 2)
	assert.Equal(t, "drama", created.Genres[0].Slug)
	assert.Nil(t, created.Rating)
}

func TestService_Create_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		input title.CreateInput
		field string
	}{
		{"missing_name", title.CreateInput{Year: pointer.To(2000)}, title.FieldName},
		{"missing_year", title.CreateInput{Name: "Untitled"}, title.FieldYear},
		{"future_year", title.CreateInput{Name: "Soon", Year: pointer.To(2025)}, title.FieldYear},
		{"negative_year", title.CreateInput{Name: "Ancient", Year: pointer.To(-1)}, title.FieldYear},
		{"unknown_category", title.CreateInput{Name: "X", Year: pointer.To(2000), Category: "games"}, title.FieldCategory},
		{"unknown_genre", title.CreateInput{Name: "X", Year: pointer.To(2000), Genres: []string{"drama", "polka"}}, title.FieldGenre},
	}

	service := newService(newMemoryTitles())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(context.Background(), tt.input)
			assert.Contains(t, details(t, err), tt.field)
		})
	}

	t.Run("current_year_allowed", func(t *testing.T) {
		_, err := service.Create(context.Background(), title.CreateInput{Name: "Now", Year: pointer.To(2024)})
		assert.NoError(t, err)
	})
}

func TestService_Update(t *testing.T) {
	repo := newMemoryTitles()
	service := newService(repo)

	created, err := service.Create(context.Background(), title.CreateInput{
		Name:     "Original",
		Year:     pointer.To(1999),
		Category: "films",
		Genres:   []string{"drama"},
	})
	require.NoError(t, err)

	t.Run("rename_keeps_links", func(t *testing.T) {
		updated, err := service.Update(context.Background(), created.ID, title.UpdateInput{Name: pointer.To("Renamed")})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		assert.Equal(t, 1999, updated.Year)
		require.NotNil(t, updated.Category)
		assert.Len(t, updated.Genres, 1)
	})

	t.Run("empty_category_detaches", func(t *testing.T) {
		updated, err := service.Update(context.Background(), created.ID, title.UpdateInput{Category: pointer.To("")})
		require.NoError(t, err)
		assert.Nil(t, updated.Category)
	})

	t.Run("genres_replaced", func(t *testing.T) {
		updated, err := service.Update(context.Background(), created.ID, title.UpdateInput{Genres: &[]string{"comedy"}})
		require.NoError(t, err)
		require.Len(t, updated.Genres, 1)
		assert.Equal(t, "comedy", updated.Genres[0].Slug)
	})

	t.Run("future_year", func(t *testing.T) {
		_, err := service.Update(context.Background(), created.ID, title.UpdateInput{Year: pointer.To(3000)})
		assert.Contains(t, details(t, err), title.FieldYear)
	})

	t.Run("missing_title", func(t *testing.T) {
		_, err := service.Update(context.Background(), 999, title.UpdateInput{})
		assert.True(t, apperr.IsNotFound(err))
	})
}

/*
TestService_RatingFollowsReviews checks the rating is derived per read: null
without reviews, the mean once reviews exist, null again once they are gone.
*/
func TestService_RatingFollowsReviews(t *testing.T) {
	repo := newMemoryTitles()
	service := newService(repo)

	created, err := service.Create(context.Background(), title.CreateInput{Name: "Rated", Year: pointer.To(2001)})
	require.NoError(t, err)
	assert.Nil(t, created.Rating)

	repo.scores[created.ID] = []int{10, 7, 4}
	read, err := service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, read.Rating)
	assert.InDelta(t, 7.0, *read.Rating, 1e-9)

	repo.scores[created.ID] = nil
	read, err = service.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Nil(t, read.Rating)
}
