// Package like maintains each user's liked-set: the books a user has marked
// as liked. The set lives in user_liked_books and the server copy is the
// only source of truth.
package like

import "errors"

var (
	ErrInvalidID     = errors.New("invalid id")
	ErrAlreadyLiked  = errors.New("book is already liked")
	ErrUserNotFound  = errors.New("user not found")
	ErrBookNotFound  = errors.New("book not found")
	ErrIdentityClash = errors.New("user id does not match token")
)
