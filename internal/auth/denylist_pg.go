package auth

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDenylist keeps revoked token ids in the revoked_tokens table. It
// backs logout when no Redis is configured. Expired rows are ignored on read
// and removed by CleanupExpired.
type PostgresDenylist struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresDenylist(db *pgxpool.Pool, timeout time.Duration) *PostgresDenylist {
	return &PostgresDenylist{db: db, timeout: timeout}
}

func (d *PostgresDenylist) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.timeout)
}

func (d *PostgresDenylist) Revoke(ctx context.Context, jti string, until time.Time) error {
	if !until.After(time.Now()) {
		return nil
	}
	const query = `
	INSERT INTO revoked_tokens (jti, expires_at)
	VALUES ($1, $2)
	ON CONFLICT (jti) DO NOTHING
	`
	timeoutCtx, cancel := d.withTimeout(ctx)
	defer cancel()
	_, err := d.db.Exec(timeoutCtx, query, jti, until)
	return err
}

func (d *PostgresDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	const query = `
	SELECT EXISTS(
		SELECT 1 FROM revoked_tokens
		WHERE jti = $1 AND expires_at > now()
	)
	`
	var revoked bool
	timeoutCtx, cancel := d.withTimeout(ctx)
	defer cancel()
	err := d.db.QueryRow(timeoutCtx, query, jti).Scan(&revoked)
	return revoked, err
}

// CleanupExpired deletes rows whose token can no longer be presented.
func (d *PostgresDenylist) CleanupExpired(ctx context.Context) (int64, error) {
	timeoutCtx, cancel := d.withTimeout(ctx)
	defer cancel()
	tag, err := d.db.Exec(timeoutCtx, `DELETE FROM revoked_tokens WHERE expires_at <= now()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
