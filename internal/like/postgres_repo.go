package like

import (
	"context"
	"errors"
	"time"

	"bookcatalog/internal/book"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	foreignKeyViolation = "23503"
	userForeignKey      = "user_liked_books_user_fk"
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

// Add inserts the pair in one statement so concurrent likes of the same book
// cannot both succeed.
func (r *PostgresRepo) Add(ctx context.Context, userID, bookID string) (bool, error) {
	const insertSQL = `
		INSERT INTO user_liked_books (user_id, book_id, liked_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, book_id) DO NOTHING
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	tag, err := r.db.Exec(timeoutCtx, insertSQL, userID, bookID)
	if err != nil {
		return false, mapForeignKey(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PostgresRepo) Remove(ctx context.Context, userID, bookID string) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.Exec(timeoutCtx, `DELETE FROM user_liked_books WHERE user_id = $1 AND book_id = $2`, userID, bookID)
	return err
}

func (r *PostgresRepo) LikedBooks(ctx context.Context, userID string) ([]book.Book, error) {
	const dataSQL = `
		SELECT b.id, b.title, b.author, b.year, b.category, b.price, b.rating, b.image,
		       (SELECT COUNT(*) FROM user_liked_books c WHERE c.book_id = b.id)::int AS total_likes,
		       b.created_at, b.updated_at
		FROM user_liked_books ul
		JOIN books b ON b.id = ul.book_id
		WHERE ul.user_id = $1
		ORDER BY ul.liked_at ASC, b.id ASC
	`
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.Query(timeoutCtx, dataSQL, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []book.Book{}
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Year, &b.Category, &b.Price, &b.Rating, &b.Image,
			&b.TotalLikes, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func mapForeignKey(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != foreignKeyViolation {
		return err
	}
	if pgErr.ConstraintName == userForeignKey {
		return ErrUserNotFound
	}
	return ErrBookNotFound
}
