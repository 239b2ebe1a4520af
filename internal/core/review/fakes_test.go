// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package review_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/core/review"
	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// memoryStore is an in-memory [review.Repository]. The mutex makes the
// (title, author) check-and-insert atomic, standing in for the unique index.
type memoryStore struct {
	mu       sync.Mutex
	nextID   int64
	clock    time.Time
	titles   map[int64]bool
	reviews  map[int64]*review.Review
	comments map[int64]*review.Comment
}

func newMemoryStore(titleIDs ...int64) *memoryStore {
	store := &memoryStore{
		clock:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		titles:   make(map[int64]bool),
		reviews:  make(map[int64]*review.Review),
		comments: make(map[int64]*review.Comment),
	}
	for _, id := range titleIDs {
		store.titles[id] = true
	}
	return store
}

// tick returns strictly increasing publication dates.
func (store *memoryStore) tick() time.Time {
	store.clock = store.clock.Add(time.Minute)
	return store.clock
}

func (store *memoryStore) TitleExists(_ context.Context, titleID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if !store.titles[titleID] {
		return apperr.NotFound("Title")
	}
	return nil
}

func page[T any](items []T, params pagination.Params) []T {
	start := min(params.Offset(), len(items))
	end := min(start+params.Limit, len(items))
	return items[start:end]
}

func (store *memoryStore) ListReviews(_ context.Context, titleID int64, filter review.Filter, params pagination.Params) ([]*review.Review, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var matched []*review.Review
	for _, item := range store.reviews {
		if item.TitleID == titleID && (filter.Author == "" || item.Author == filter.Author) {
			clone := *item
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.After(matched[j].PubDate) })
	return page(matched, params), len(matched), nil
}

func (store *memoryStore) FindReview(_ context.Context, titleID, reviewID int64) (*review.Review, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	item, ok := store.reviews[reviewID]
	if !ok || item.TitleID != titleID {
		return nil, apperr.NotFound("Review")
	}
	clone := *item
	return &clone, nil
}

func (store *memoryStore) CreateReview(_ context.Context, item *review.Review) (bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	if !store.titles[item.TitleID] {
		return false, apperr.NotFound("Title")
	}
	for _, existing := range store.reviews {
		if existing.TitleID == item.TitleID && existing.AuthorID == item.AuthorID {
			return false, nil
		}
	}
	store.nextID++
	item.ID = store.nextID
	item.PubDate = store.tick()
	clone := *item
	store.reviews[item.ID] = &clone
	return true, nil
}

func (store *memoryStore) UpdateReview(_ context.Context, item *review.Review) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	existing, ok := store.reviews[item.ID]
	if !ok {
		return apperr.NotFound("Review")
	}
	existing.Text = item.Text
	existing.Score = item.Score
	return nil
}

func (store *memoryStore) DeleteReview(_ context.Context, reviewID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.reviews[reviewID]; !ok {
		return apperr.NotFound("Review")
	}
	delete(store.reviews, reviewID)
	for id, comment := range store.comments {
		if comment.ReviewID == reviewID {
			delete(store.comments, id)
		}
	}
	return nil
}

func (store *memoryStore) ListComments(_ context.Context, reviewID int64, filter review.Filter, params pagination.Params) ([]*review.Comment, int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	var matched []*review.Comment
	for _, item := range store.comments {
		if item.ReviewID == reviewID && (filter.Author == "" || item.Author == filter.Author) {
			clone := *item
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].PubDate.After(matched[j].PubDate) })
	return page(matched, params), len(matched), nil
}

func (store *memoryStore) FindComment(_ context.Context, reviewID, commentID int64) (*review.Comment, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	item, ok := store.comments[commentID]
	if !ok || item.ReviewID != reviewID {
		return nil, apperr.NotFound("Comment")
	}
	clone := *item
	return &clone, nil
}

func (store *memoryStore) CreateComment(_ context.Context, item *review.Comment) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.reviews[item.ReviewID]; !ok {
		return apperr.NotFound("Review")
	}
	store.nextID++
	item.ID = store.nextID
	item.PubDate = store.tick()
	clone := *item
	store.comments[item.ID] = &clone
	return nil
}

func (store *memoryStore) UpdateComment(_ context.Context, item *review.Comment) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	existing, ok := store.comments[item.ID]
	if !ok {
		return apperr.NotFound("Comment")
	}
	existing.Text = item.Text
	return nil
}

func (store *memoryStore) DeleteComment(_ context.Context, commentID int64) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	if _, ok := store.comments[commentID]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(store.comments, commentID)
	return nil
}

func newService(store *memoryStore) *review.Service {
	return review.NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

var (
	author    = &sec.Identity{UserID: 1, Username: "author", Role: sec.RoleUser}
	stranger  = &sec.Identity{UserID: 2, Username: "stranger", Role: sec.RoleUser}
	moderator = &sec.Identity{UserID: 3, Username: "mod", Role: sec.RoleModerator}
	admin     = &sec.Identity{UserID: 4, Username: "boss", Role: sec.RoleAdmin}
	superuser = &sec.Identity{UserID: 5, Username: "root", Role: sec.RoleUser, IsSuperuser: true}
)
