package like

import (
	"context"
	"fmt"

	"bookcatalog/internal/book"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	users Users
}

func NewService(repo Repository, users Users) *Service {
	return &Service{repo: repo, users: users}
}

func validID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}

// Like adds bookID to the user's liked-set and returns the whole set.
func (s *Service) Like(ctx context.Context, userID, bookID string) ([]book.Book, error) {
	if !validID(userID) || !validID(bookID) {
		return nil, ErrInvalidID
	}
	added, err := s.repo.Add(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if !added {
		return nil, ErrAlreadyLiked
	}
	return s.liked(ctx, userID)
}

// Unlike removes bookID from the liked-set. Removing an absent book succeeds
// and returns the set unchanged.
func (s *Service) Unlike(ctx context.Context, userID, bookID string) ([]book.Book, error) {
	if !validID(userID) || !validID(bookID) {
		return nil, ErrInvalidID
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.Remove(ctx, userID, bookID); err != nil {
		return nil, fmt.Errorf("unlike: %w", err)
	}
	return s.liked(ctx, userID)
}

// LikedBooks returns the user's liked-set as populated books.
func (s *Service) LikedBooks(ctx context.Context, userID string) ([]book.Book, error) {
	if !validID(userID) {
		return nil, ErrInvalidID
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.liked(ctx, userID)
}

func (s *Service) requireUser(ctx context.Context, userID string) error {
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !ok {
		return ErrUserNotFound
	}
	return nil
}

func (s *Service) liked(ctx context.Context, userID string) ([]book.Book, error) {
	books, err := s.repo.LikedBooks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("liked books: %w", err)
	}
	return books, nil
}
