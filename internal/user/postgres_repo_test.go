package user

import (
	"context"
	"strings"
	"testing"
	"time"

	"bookcatalog/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresRepo_CreateAndLookup(t *testing.T) {
	db := testutil.DB(t)
	repo := NewPostgresRepo(db, 5*time.Second)
	ctx := context.Background()

	email := "Reader-" + uuid.NewString() + "@Example.com"
	u := &User{Email: email, Password: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	t.Cleanup(func() { _, _ = db.Exec(context.Background(), `DELETE FROM users WHERE id = $1`, u.ID) })

	got, err := repo.GetByEmail(ctx, strings.ToLower(email))
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.Password)

	ok, err := repo.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok)

	err = repo.Create(ctx, &User{Email: strings.ToUpper(email), Password: "other"})
	assert.ErrorIs(t, err, ErrAlreadyExists)

	_, err = repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
