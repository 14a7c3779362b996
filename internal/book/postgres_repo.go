package book

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const selectWithLikes = `
	SELECT b.id, b.title, b.author, b.year, b.category, b.price, b.rating, b.image,
	       COUNT(l.user_id)::int AS total_likes, b.created_at, b.updated_at
	FROM books b
	LEFT JOIN user_liked_books l ON l.book_id = b.id
`

// List returns every book in insertion order with its like count. The
// listing projection leaves out the publication year.
func (r *PostgresRepo) List(ctx context.Context) ([]Book, error) {
	const query = `
		SELECT b.id, b.title, b.author, b.category, b.price, b.rating, b.image,
		       COUNT(l.user_id)::int AS total_likes, b.created_at, b.updated_at
		FROM books b
		LEFT JOIN user_liked_books l ON l.book_id = b.id
		GROUP BY b.id
		ORDER BY b.created_at ASC, b.id ASC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Category, &b.Price, &b.Rating, &b.Image,
			&b.TotalLikes, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	query := selectWithLikes + `WHERE b.id = $1 GROUP BY b.id`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(timeoutCtx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (id, title, author, year, category, price, rating, image)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.QueryRow(timeoutCtx, query,
		b.Title, b.Author, b.Year, b.Category, b.Price, b.Rating, b.Image,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const query = `
		UPDATE books
		SET title = $2, author = $3, year = $4, category = $5, price = $6,
		    rating = $7, image = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	err := r.db.QueryRow(timeoutCtx, query,
		b.ID, b.Title, b.Author, b.Year, b.Category, b.Price, b.Rating, b.Image,
	).Scan(&b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes the book. Likes referencing it go with it (ON DELETE CASCADE).
func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.Year, &b.Category, &b.Price, &b.Rating, &b.Image,
		&b.TotalLikes, &b.CreatedAt, &b.UpdatedAt,
	)
	return b, err
}
