package main

import (
	"context"
	"net/http"

	"bookcatalog/internal/auth"
	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/like"
	"bookcatalog/internal/user"
)

type handlers struct {
	book *book.HTTPHandler
	user *user.HTTPHandler
	like *like.HTTPHandler
	auth *auth.HTTPHandler
}

// readyFunc reports whether the backing stores answer.
type readyFunc func(ctx context.Context) error

func newRouter(h handlers, secret string, denylist httpx.Denylist, ready readyFunc) *http.ServeMux {
	router := http.NewServeMux()
	protected := httpx.AuthMiddleware(secret, denylist)

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := ready(r.Context()); err != nil {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("POST /auth/signup", h.auth.Signup)
	router.HandleFunc("POST /auth/login", h.auth.Login)
	router.Handle("POST /auth/logout", protected(http.HandlerFunc(h.auth.Logout)))

	router.HandleFunc("GET /books", h.book.List)
	router.HandleFunc("GET /books/{id}", h.book.Get)
	router.Handle("POST /books", protected(http.HandlerFunc(h.book.Create)))
	router.Handle("PUT /books/{id}", protected(http.HandlerFunc(h.book.Update)))
	router.Handle("DELETE /books/{id}", protected(http.HandlerFunc(h.book.Delete)))

	router.Handle("POST /books/{id}/like", protected(http.HandlerFunc(h.like.Like)))
	router.Handle("POST /books/{id}/unlike", protected(http.HandlerFunc(h.like.Unlike)))
	router.HandleFunc("GET /users/{id}/liked_books", h.like.LikedBooks)

	router.Handle("GET /me", protected(http.HandlerFunc(h.user.GetCurrentUser)))

	return router
}
