// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// codeKeyInfo separates the confirmation-code key from any other key derived
// from the same master secret.
const codeKeyInfo = "yamdb/confirmation-code/v1"

// codeDigestBytes is how much of the HMAC is kept in a code.
const codeDigestBytes = 10

// CodeState is the snapshot of a user that a confirmation code is bound to.
//
// Any change to these fields (most notably LastLogin, which is stamped on a
// successful token exchange) invalidates every code issued before it.
type CodeState struct {
	UserID      int64
	Username    string
	Email       string
	Role        UserRole
	IsSuperuser bool
	LastLogin   *time.Time
}

// ConfirmationCodes issues and checks stateless, time-bound confirmation codes.
//
// A code has the form "<issued-at base36>-<hex digest>", where the digest is
// an HMAC-SHA256 over the issue time and the [CodeState].
type ConfirmationCodes struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewConfirmationCodes derives the signing key from secret with HKDF.
func NewConfirmationCodes(secret string, ttl time.Duration) (*ConfirmationCodes, error) {
	if secret == "" {
		return nil, errors.New("sec: confirmation code secret is empty")
	}
	if ttl <= 0 {
		return nil, errors.New("sec: confirmation code ttl must be positive")
	}

	key := make([]byte, sha256.Size)
	reader := hkdf.New(sha256.New, []byte(secret), nil, []byte(codeKeyInfo))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("sec: failed to derive confirmation code key: %w", err)
	}

	return &ConfirmationCodes{key: key, ttl: ttl, now: time.Now}, nil
}

// WithClock returns a copy that reads the current time from now.
func (codes *ConfirmationCodes) WithClock(now func() time.Time) *ConfirmationCodes {
	clone := *codes
	clone.now = now
	return &clone
}

// TTL is how long an issued code stays valid.
func (codes *ConfirmationCodes) TTL() time.Duration {
	return codes.ttl
}

// Make issues a code bound to state at the current time.
func (codes *ConfirmationCodes) Make(state CodeState) string {
	issuedAt := codes.now().Unix()
	return strconv.FormatInt(issuedAt, 36) + "-" + codes.digest(state, issuedAt)
}

// Check reports whether code was issued for state and has not expired.
//
// Malformed, future-dated, expired and mismatched codes are all rejected.
func (codes *ConfirmationCodes) Check(state CodeState, code string) bool {
	stamp, digest, found := strings.Cut(code, "-")
	if !found || stamp == "" || len(digest) != hex.EncodedLen(codeDigestBytes) {
		return false
	}

	issuedAt, err := strconv.ParseInt(stamp, 36, 64)
	if err != nil {
		return false
	}

	now := codes.now().Unix()
	if issuedAt > now || time.Duration(now-issuedAt)*time.Second > codes.ttl {
		return false
	}

	expected := codes.digest(state, issuedAt)
	return hmac.Equal([]byte(expected), []byte(digest))
}

func (codes *ConfirmationCodes) digest(state CodeState, issuedAt int64) string {
	lastLogin := ""
	if state.LastLogin != nil {
		lastLogin = strconv.FormatInt(state.LastLogin.UTC().UnixMicro(), 10)
	}

	mac := hmac.New(sha256.New, codes.key)
	fmt.Fprintf(mac, "%d|%d|%s|%s|%s|%t|%s",
		issuedAt,
		state.UserID,
		state.Username,
		strings.ToLower(state.Email),
		state.Role,
		state.IsSuperuser,
		lastLogin,
	)

	return hex.EncodeToString(mac.Sum(nil)[:codeDigestBytes])
}
