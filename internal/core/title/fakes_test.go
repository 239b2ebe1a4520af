// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package title_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/core/taxonomy"
	"github.com/taibuivan/yamdb/internal/core/title"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// memoryTitles is an in-memory [title.Repository]. Records are hydrated on
// read from the known categories and genres, like the SQL projection.
type memoryTitles struct {
	mu         sync.Mutex
	nextID     int64
	records    map[int64]title.Record
	categories map[string]taxonomy.Term
	genres     map[string]taxonomy.Term
	scores     map[int64][]int

	// lastFilter is the filter of the most recent List call.
	lastFilter title.Filter
}

func newMemoryTitles() *memoryTitles {
	return &memoryTitles{
		records: make(map[int64]title.Record),
		categories: map[string]taxonomy.Term{
			"films": {ID: 1, Name: "Films", Slug: "films"},
			"books": {ID: 2, Name: "Books", Slug: "books"},
		},
		genres: map[string]taxonomy.Term{
			"drama":  {ID: 10, Name: "Drama", Slug: "drama"},
			"comedy": {ID: 11, Name: "Comedy", Slug: "comedy"},
		},
		scores: make(map[int64][]int),
	}
}

func (repo *memoryTitles) hydrate(record title.Record) *title.Title {
	hydrated := &title.Title{
		ID:          record.ID,
		Name:        record.Name,
		Year:        record.Year,
		Description: record.Description,
		CategoryID:  record.CategoryID,
		Genres:      []taxonomy.Term{},
	}
	for _, category := range repo.categories {
		if record.CategoryID != nil && category.ID == *record.CategoryID {
			clone := category
			hydrated.Category = &clone
		}
	}
	for _, id := range record.GenreIDs {
		for _, genre := range repo.genres {
			if genre.ID == id {
				hydrated.Genres = append(hydrated.Genres, genre)
			}
		}
	}
	var sum int64
	for _, score := range repo.scores[record.ID] {
		sum += int64(score)
	}
	hydrated.Rating = title.Rating(int64(len(repo.scores[record.ID])), sum)
	return hydrated
}

func (repo *memoryTitles) List(_ context.Context, filter title.Filter, _ pagination.Params) ([]*title.Title, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.lastFilter = filter
	titles := []*title.Title{}
	for _, record := range repo.records {
		titles = append(titles, repo.hydrate(record))
	}
	return titles, len(titles), nil
}

func (repo *memoryTitles) FindByID(_ context.Context, id int64) (*title.Title, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	record, ok := repo.records[id]
	if !ok {
		return nil, apperr.NotFound("Title")
	}
	return repo.hydrate(record), nil
}

func (repo *memoryTitles) Create(_ context.Context, record *title.Record) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	repo.nextID++
	record.ID = repo.nextID
	repo.records[record.ID] = *record
	return nil
}

func (repo *memoryTitles) Update(_ context.Context, record *title.Record) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	stored, ok := repo.records[record.ID]
	if !ok {
		return apperr.NotFound("Title")
	}
	if !record.ReplaceGenres {
		record.GenreIDs = stored.GenreIDs
	}
	repo.records[record.ID] = *record
	return nil
}

func (repo *memoryTitles) Delete(_ context.Context, id int64) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if _, ok := repo.records[id]; !ok {
		return apperr.NotFound("Title")
	}
	delete(repo.records, id)
	delete(repo.scores, id)
	return nil
}

func (repo *memoryTitles) CategoryIDs(_ context.Context, slugs []string) (map[string]int64, error) {
	return idsOf(repo.categories, slugs), nil
}

func (repo *memoryTitles) GenreIDs(_ context.Context, slugs []string) (map[string]int64, error) {
	return idsOf(repo.genres, slugs), nil
}

func idsOf(terms map[string]taxonomy.Term, slugs []string) map[string]int64 {
	ids := make(map[string]int64)
	for _, slug := range slugs {
		if term, ok := terms[slug]; ok {
			ids[slug] = term.ID
		}
	}
	return ids
}

// fixedNow pins the current year to 2024.
func fixedNow() time.Time {
	return time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
}

func newService(repo *memoryTitles) *title.Service {
	return title.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil))).WithClock(fixedNow)
}
