package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookcatalog/internal/platform/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDenylist struct {
	revoked map[string]bool
	err     error
}

func (f fakeDenylist) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

func TestAuthMiddleware(t *testing.T) {
	const secret = "test-secret"

	var got Identity
	protected := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = IdentityFrom(r)
		w.WriteHeader(http.StatusOK)
	})

	token, jti, err := crypto.GenerateToken(secret, "user-1", "reader@example.com", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name     string
		header   string
		denylist Denylist
		want     int
	}{
		{name: "valid token", header: "Bearer " + token, want: http.StatusOK},
		{name: "missing header", header: "", want: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, want: http.StatusUnauthorized},
		{name: "malformed", header: "Bearer not-a-token", want: http.StatusUnauthorized},
		{name: "revoked", header: "Bearer " + token, denylist: fakeDenylist{revoked: map[string]bool{jti: true}}, want: http.StatusUnauthorized},
		{name: "denylist unavailable", header: "Bearer " + token, denylist: fakeDenylist{err: errors.New("redis down")}, want: http.StatusUnauthorized},
		{name: "not revoked", header: "Bearer " + token, denylist: fakeDenylist{}, want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = Identity{}
			req := httptest.NewRequest(http.MethodPost, "/books", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			AuthMiddleware(secret, tt.denylist)(protected).ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "user-1", got.UserID)
				assert.Equal(t, "reader@example.com", got.Email)
				assert.Equal(t, jti, got.TokenID)
				return
			}
			var body ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
			assert.Equal(t, CodeUnauthorized, body.Error.Code)
			assert.Equal(t, "Invalid or expired token", body.Error.Message)
		})
	}
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	token, _, err := crypto.GenerateToken("s", "user-1", "a@example.com", -time.Minute)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/books/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	AuthMiddleware("s", nil)(okHandler()).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
