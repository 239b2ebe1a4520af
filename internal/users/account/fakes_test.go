// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
	"github.com/taibuivan/yamdb/internal/users/auth"
	"github.com/taibuivan/yamdb/pkg/pagination"
)

// memoryAccounts is an in-memory [account.AccountRepository] with the unique
// constraints of users.account.
type memoryAccounts struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*auth.User

	// updateErr, when set, is returned by Update instead of writing.
	updateErr error
}

func newMemoryAccounts() *memoryAccounts {
	return &memoryAccounts{byID: make(map[int64]*auth.User)}
}

func (repo *memoryAccounts) seed(username string, role sec.UserRole) *auth.User {
	user := &auth.User{Username: username, Email: username + "@example.com", Role: role}
	if err := repo.Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

func (repo *memoryAccounts) find(match func(*auth.User) bool) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.byID {
		if match(user) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repo *memoryAccounts) List(_ context.Context, search string, params pagination.Params) ([]*auth.User, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var matched []*auth.User
	for _, user := range repo.byID {
		if strings.Contains(strings.ToLower(user.Username), strings.ToLower(search)) {
			clone := *user
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Username < matched[j].Username })

	total := len(matched)
	start := min(params.Offset(), total)
	end := min(start+params.Limit, total)
	return matched[start:end], total, nil
}

func (repo *memoryAccounts) FindByID(_ context.Context, id int64) (*auth.User, error) {
	return repo.find(func(user *auth.User) bool { return user.ID == id })
}

func (repo *memoryAccounts) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return repo.find(func(user *auth.User) bool { return user.Username == username })
}

func (repo *memoryAccounts) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return repo.find(func(user *auth.User) bool { return user.Email == email })
}

func (repo *memoryAccounts) conflict(user *auth.User) error {
	for _, existing := range repo.byID {
		if existing.ID == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return &dberr.UniqueViolation{Constraint: schema.UserAccount.UsernameKey}
		}
		if existing.Email == user.Email {
			return &dberr.UniqueViolation{Constraint: schema.UserAccount.EmailKey}
		}
	}
	return nil
}

func (repo *memoryAccounts) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if err := repo.conflict(user); err != nil {
		return err
	}
	repo.nextID++
	user.ID = repo.nextID
	user.DateJoined = time.Now()
	clone := *user
	repo.byID[user.ID] = &clone
	return nil
}

func (repo *memoryAccounts) Update(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.updateErr != nil {
		return repo.updateErr
	}
	if _, ok := repo.byID[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	if err := repo.conflict(user); err != nil {
		return err
	}
	clone := *user
	repo.byID[user.ID] = &clone
	return nil
}

func (repo *memoryAccounts) DeleteByUsername(_ context.Context, username string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for id, user := range repo.byID {
		if user.Username == username {
			delete(repo.byID, id)
			return nil
		}
	}
	return apperr.NotFound("User")
}

func newService(repo *memoryAccounts) *account.Service {
	return account.NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}
