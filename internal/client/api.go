package client

import (
	"context"
	"net/http"
	"net/url"

	"bookcatalog/internal/book"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type likedResp struct {
	Message    string      `json:"message"`
	LikedBooks []book.Book `json:"likedBooks"`
}

type likeReq struct {
	UserID string `json:"userId,omitempty"`
}

// Signup registers an account and returns its token.
func (c *Client) Signup(ctx context.Context, email, password string) (string, error) {
	var out tokenResp
	if err := c.do(ctx, http.MethodPost, "/auth/signup", credentials{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var out tokenResp
	if err := c.do(ctx, http.MethodPost, "/auth/login", credentials{Email: email, Password: password}, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Logout asks the server to revoke the current token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

func (c *Client) ListBooks(ctx context.Context) ([]book.Book, error) {
	var out []book.Book
	if err := c.do(ctx, http.MethodGet, "/books", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetBook(ctx context.Context, id string) (book.Book, error) {
	var out book.Book
	err := c.do(ctx, http.MethodGet, "/books/"+url.PathEscape(id), nil, &out)
	return out, err
}

func (c *Client) CreateBook(ctx context.Context, in book.CreateInput) (book.Book, error) {
	var out book.Book
	err := c.do(ctx, http.MethodPost, "/books", in, &out)
	return out, err
}

func (c *Client) UpdateBook(ctx context.Context, id string, in book.UpdateInput) (book.Book, error) {
	var out book.Book
	err := c.do(ctx, http.MethodPut, "/books/"+url.PathEscape(id), in, &out)
	return out, err
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/books/"+url.PathEscape(id), nil, nil)
}

// Like returns the user's liked-set as stored after the change.
func (c *Client) Like(ctx context.Context, userID, bookID string) ([]book.Book, error) {
	var out likedResp
	if err := c.do(ctx, http.MethodPost, "/books/"+url.PathEscape(bookID)+"/like", likeReq{UserID: userID}, &out); err != nil {
		return nil, err
	}
	return out.LikedBooks, nil
}

func (c *Client) Unlike(ctx context.Context, userID, bookID string) ([]book.Book, error) {
	var out likedResp
	if err := c.do(ctx, http.MethodPost, "/books/"+url.PathEscape(bookID)+"/unlike", likeReq{UserID: userID}, &out); err != nil {
		return nil, err
	}
	return out.LikedBooks, nil
}

func (c *Client) LikedBooks(ctx context.Context, userID string) ([]book.Book, error) {
	var out likedResp
	if err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(userID)+"/liked_books", nil, &out); err != nil {
		return nil, err
	}
	return out.LikedBooks, nil
}
