package book

import (
	"errors"
	"strings"
	"time"

	"bookcatalog/internal/browse"
)

var (
	// ErrNotFound is returned when a book is not found.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidID is returned for identifiers that are not UUIDs.
	ErrInvalidID = errors.New("invalid book id")
)

// Book represents a book entity. TotalLikes is derived at read time from
// user_liked_books and never stored.
type Book struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Year       *int      `json:"year,omitempty"`
	Category   string    `json:"category"`
	Price      float64   `json:"price"`
	Rating     float64   `json:"rating"`
	Image      string    `json:"image"`
	TotalLikes int       `json:"totalLikes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ToBrowse converts the entity to the query engine read model.
func (b Book) ToBrowse() browse.Book {
	return browse.Book{
		ID:         b.ID,
		Title:      b.Title,
		Author:     b.Author,
		Category:   b.Category,
		Price:      b.Price,
		Rating:     b.Rating,
		Image:      b.Image,
		TotalLikes: b.TotalLikes,
	}
}

// CreateInput is the payload of POST /books.
type CreateInput struct {
	Title    string   `json:"title" validate:"notblank,max=300"`
	Author   string   `json:"author" validate:"notblank,max=200"`
	Year     *int     `json:"year" validate:"required,gt=0"`
	Category string   `json:"category" validate:"notblank,max=100"`
	Price    *float64 `json:"price" validate:"required,gt=0"`
	Rating   *float64 `json:"rating" validate:"required,gte=1,lte=5"`
	Image    string   `json:"image" validate:"notblank"`
}

// UpdateInput is the payload of PUT /books/{id}. Nil fields are left as is.
type UpdateInput struct {
	Title    *string  `json:"title" validate:"omitempty,notblank,max=300"`
	Author   *string  `json:"author" validate:"omitempty,notblank,max=200"`
	Year     *int     `json:"year" validate:"omitempty,gt=0"`
	Category *string  `json:"category" validate:"omitempty,notblank,max=100"`
	Price    *float64 `json:"price" validate:"omitempty,gt=0"`
	Rating   *float64 `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Image    *string  `json:"image" validate:"omitempty,notblank"`
}

// Empty reports whether the update changes nothing.
func (in UpdateInput) Empty() bool {
	return in == UpdateInput{}
}

// Apply copies the set fields onto b. Text fields are stored trimmed.
func (in UpdateInput) Apply(b *Book) {
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Author != nil {
		b.Author = strings.TrimSpace(*in.Author)
	}
	if in.Year != nil {
		y := *in.Year
		b.Year = &y
	}
	if in.Category != nil {
		b.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		b.Price = *in.Price
	}
	if in.Rating != nil {
		b.Rating = *in.Rating
	}
	if in.Image != nil {
		b.Image = strings.TrimSpace(*in.Image)
	}
}
