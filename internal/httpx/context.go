package httpx

import (
	"context"
	"net/http"
)

type contextKey string

const (
	userIDKey    contextKey = "userID"
	emailKey     contextKey = "email"
	tokenIDKey   contextKey = "tokenID"
	requestIDKey contextKey = "requestID"
)

// Identity is what the auth middleware learned from a verified token.
type Identity struct {
	UserID  string
	Email   string
	TokenID string
}

// UserIDFrom retrieves the user ID from the request context.
func UserIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(userIDKey).(string); ok {
		return v
	}
	return ""
}

func IdentityFrom(r *http.Request) (Identity, bool) {
	userID := UserIDFrom(r)
	if userID == "" {
		return Identity{}, false
	}
	email, _ := r.Context().Value(emailKey).(string)
	tokenID, _ := r.Context().Value(tokenIDKey).(string)
	return Identity{UserID: userID, Email: email, TokenID: tokenID}, true
}

// ContextWithIdentity returns a new context carrying the verified identity.
func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	ctx = context.WithValue(ctx, userIDKey, id.UserID)
	ctx = context.WithValue(ctx, emailKey, id.Email)
	return context.WithValue(ctx, tokenIDKey, id.TokenID)
}

func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}
