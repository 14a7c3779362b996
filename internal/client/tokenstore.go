package client

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bookcatalog/internal/platform/crypto"
)

// Identity is who the stored token speaks for.
type Identity struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}

// IdentityFromToken decodes the claims of a token without verifying it. The
// server still verifies the token on every protected call.
func IdentityFromToken(token string) (Identity, error) {
	claims, err := crypto.PeekClaims(token)
	if err != nil {
		return Identity{}, fmt.Errorf("decode token: %w", err)
	}
	if claims.Sub == "" {
		return Identity{}, errors.New("decode token: missing subject")
	}
	id := Identity{UserID: claims.Sub, Email: claims.Email}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}

// Expired reports whether the identity has an expiry in the past.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// TokenStore keeps the token in a single file readable only by its owner.
type TokenStore struct {
	path string
	now  func() time.Time
}

func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path, now: time.Now}
}

func (s *TokenStore) Path() string { return s.path }

// Load returns the stored token. Missing, unreadable or expired tokens yield
// ok=false; an expired token file is removed.
func (s *TokenStore) Load() (token string, id Identity, ok bool, err error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", Identity{}, false, nil
		}
		return "", Identity{}, false, err
	}
	token = strings.TrimSpace(string(raw))
	if token == "" {
		return "", Identity{}, false, nil
	}

	id, err = IdentityFromToken(token)
	if err != nil || id.Expired(s.now()) {
		return "", Identity{}, false, s.Clear()
	}
	return token, id, true, nil
}

func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, []byte(token+"\n"), 0o600); err != nil {
		return err
	}
	return os.Chmod(s.path, 0o600)
}

func (s *TokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
