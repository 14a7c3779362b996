package book

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ValidID reports whether id is a canonical UUID.
func ValidID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}

// List returns the whole catalog with like counts.
func (s *Service) List(ctx context.Context) ([]Book, error) {
	books, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *Service) Get(ctx context.Context, id string) (Book, error) {
	if !ValidID(id) {
		return Book{}, ErrInvalidID
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Book, error) {
	b := Book{
		Title:    strings.TrimSpace(in.Title),
		Author:   strings.TrimSpace(in.Author),
		Year:     in.Year,
		Category: strings.TrimSpace(in.Category),
		Price:    *in.Price,
		Rating:   *in.Rating,
		Image:    strings.TrimSpace(in.Image),
	}
	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, fmt.Errorf("create book: %w", err)
	}
	return b, nil
}

// Update applies a partial update and returns the stored book.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Book, error) {
	if !ValidID(id) {
		return Book{}, ErrInvalidID
	}
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Book{}, err
	}
	if in.Empty() {
		return b, nil
	}
	in.Apply(&b)
	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if !ValidID(id) {
		return ErrInvalidID
	}
	return s.repo.Delete(ctx, id)
}
