// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/yamdb/internal/platform/apperr"
	"github.com/taibuivan/yamdb/internal/platform/database/schema"
	"github.com/taibuivan/yamdb/internal/platform/dberr"
	"github.com/taibuivan/yamdb/internal/platform/mailer"
	"github.com/taibuivan/yamdb/internal/users/auth"
)

// memoryUsers is an in-memory [auth.UserRepository] enforcing the same
// unique constraints as users.account.
type memoryUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*auth.User

	// createErr, when set, is returned by Create instead of inserting.
	createErr error
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{byID: make(map[int64]*auth.User)}
}

func (repo *memoryUsers) find(match func(*auth.User) bool) (*auth.User, error) {
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

func (repo *memoryUsers) FindByID(_ context.Context, id int64) (*auth.User, error) {
	return repo.find(func(user *auth.User) bool { return user.ID == id })
}

func (repo *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	return repo.find(func(user *auth.User) bool { return user.Username == username })
}

func (repo *memoryUsers) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	return repo.find(func(user *auth.User) bool { return user.Email == email })
}

func (repo *memoryUsers) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.createErr != nil {
		return repo.createErr
	}
	for _, existing := range repo.byID {
		if existing.Username == user.Username {
			return &dberr.UniqueViolation{Constraint: schema.UserAccount.UsernameKey}
		}
		if existing.Email == user.Email {
			return &dberr.UniqueViolation{Constraint: schema.UserAccount.EmailKey}
		}
	}
	repo.nextID++
	user.ID = repo.nextID
	user.DateJoined = time.Now()
	clone := *user
	repo.byID[user.ID] = &clone
	return nil
}

func (repo *memoryUsers) TouchLastLogin(_ context.Context, id int64, at time.Time) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	user, ok := repo.byID[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.LastLogin = &at
	return nil
}

// update mutates a stored user, standing in for an admin edit.
func (repo *memoryUsers) update(id int64, mutate func(*auth.User)) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	mutate(repo.byID[id])
}

// memoryClaims is an in-memory [auth.ConsumedCodeRepository].
type memoryClaims struct {
	mu      sync.Mutex
	claimed map[string]bool
	err     error
}

func newMemoryClaims() *memoryClaims {
	return &memoryClaims{claimed: make(map[string]bool)}
}

func (repo *memoryClaims) Claim(_ context.Context, userID int64, code string, _ time.Duration) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if repo.err != nil {
		return false, repo.err
	}
	key := strconv.FormatInt(userID, 10) + "/" + code
	if repo.claimed[key] {
		return false, nil
	}
	repo.claimed[key] = true
	return true, nil
}

// outbox records sent mail.
type outbox struct {
	mu       sync.Mutex
	messages []mailer.Message
	err      error
}

func (box *outbox) Send(_ context.Context, message mailer.Message) error {
	box.mu.Lock()
	defer box.mu.Unlock()
	box.messages = append(box.messages, message)
	return box.err
}

func (box *outbox) last() mailer.Message {
	box.mu.Lock()
	defer box.mu.Unlock()
	return box.messages[len(box.messages)-1]
}

// code extracts the confirmation code from the last mail.
func (box *outbox) code() string {
	_, rest, _ := strings.Cut(box.last().Text, "confirmation_code: ")
	code, _, _ := strings.Cut(rest, "\n")
	return code
}

// stubTokens issues predictable tokens.
type stubTokens struct {
	issued []int64
	err    error
}

func (tokens *stubTokens) GenerateAccessToken(userID int64, _ time.Duration) (string, error) {
	if tokens.err != nil {
		return "", tokens.err
	}
	tokens.issued = append(tokens.issued, userID)
	return "token-for-user", nil
}

var errBoom = errors.New("boom")
