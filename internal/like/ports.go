package like

import (
	"context"

	"bookcatalog/internal/book"
)

//go:generate mockgen -source=ports.go -destination=mock_ports.go -package=like

// Repository stores liked-sets.
type Repository interface {
	// Add returns false when the pair was already present.
	Add(ctx context.Context, userID, bookID string) (bool, error)
	// Remove is a no-op for absent pairs.
	Remove(ctx context.Context, userID, bookID string) error
	// LikedBooks returns the user's liked books, oldest like first.
	LikedBooks(ctx context.Context, userID string) ([]book.Book, error)
}

// Users answers whether an account exists.
type Users interface {
	Exists(ctx context.Context, id string) (bool, error)
}
