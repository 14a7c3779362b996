package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bookcatalog/internal/platform/crypto"
	"bookcatalog/internal/user"
)

//go:generate mockgen -source=service.go -destination=mock_ports.go -package=auth

var (
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

// Users is the slice of the user service that auth needs.
type Users interface {
	Register(ctx context.Context, email, hashedPassword string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
}

// Revoker records token ids that must be refused until they expire.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
}

type Service struct {
	secret  string
	ttl     time.Duration
	users   Users
	revoker Revoker
}

// NewService wires the auth flows. A nil revoker makes Logout a no-op on the
// server; tokens then stay valid until they expire.
func NewService(secret string, ttl time.Duration, users Users, revoker Revoker) *Service {
	if ttl <= 0 {
		ttl = crypto.DefaultTokenTTL
	}
	return &Service{secret: secret, ttl: ttl, users: users, revoker: revoker}
}

// Signup creates the account and returns a token for it.
func (s *Service) Signup(ctx context.Context, email, password string) (string, error) {
	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.Register(ctx, email, hashed)
	if err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return s.issue(u)
}

// Login checks the credentials and returns a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	if !crypto.VerifyPassword(u.Password, password) {
		return "", ErrInvalidCredentials
	}
	return s.issue(u)
}

// Logout revokes the token id until the token would have expired anyway.
func (s *Service) Logout(ctx context.Context, jti string, expiresAt time.Time) error {
	if s.revoker == nil || jti == "" {
		return nil
	}
	if !expiresAt.After(time.Now()) {
		return nil
	}
	return s.revoker.Revoke(ctx, jti, expiresAt)
}

func (s *Service) issue(u user.User) (string, error) {
	token, _, err := crypto.GenerateToken(s.secret, u.ID, u.Email, s.ttl)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
