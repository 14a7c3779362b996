package auth

import (
	"context"
	"testing"
	"time"

	"bookcatalog/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresDenylist(t *testing.T) {
	db := testutil.DB(t)
	d := NewPostgresDenylist(db, 5*time.Second)
	ctx := context.Background()

	jti := uuid.NewString()
	t.Cleanup(func() { _, _ = db.Exec(context.Background(), `DELETE FROM revoked_tokens WHERE jti = $1`, jti) })

	revoked, err := d.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, jti, time.Now().Add(time.Hour)))
	require.NoError(t, d.Revoke(ctx, jti, time.Now().Add(time.Hour)))

	revoked, err = d.IsRevoked(ctx, jti)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestPostgresDenylist_ExpiredEntries(t *testing.T) {
	db := testutil.DB(t)
	d := NewPostgresDenylist(db, 5*time.Second)
	ctx := context.Background()

	past := uuid.NewString()
	require.NoError(t, d.Revoke(ctx, past, time.Now().Add(-time.Minute)))
	revoked, err := d.IsRevoked(ctx, past)
	require.NoError(t, err)
	assert.False(t, revoked)

	stale := uuid.NewString()
	_, err = db.Exec(ctx, `INSERT INTO revoked_tokens (jti, expires_at) VALUES ($1, now() - interval '1 hour')`, stale)
	require.NoError(t, err)

	n, err := d.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1))
}
