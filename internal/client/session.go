package client

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"bookcatalog/internal/book"
	"bookcatalog/internal/browse"
)

// ErrNotLoggedIn is returned by operations that need an identity.
var ErrNotLoggedIn = errors.New("not logged in")

// Session is the shared state of one front end: who is logged in, what they
// like and the catalog engine. Every consumer gets the same *Session.
type Session struct {
	api    *Client
	store  *TokenStore
	engine *browse.Engine
	log    *slog.Logger

	fetchGen atomic.Uint64

	mu         sync.RWMutex
	identity   *Identity
	liked      []book.Book
	likeCounts map[string]int
}

func NewSession(api *Client, store *TokenStore, log *slog.Logger) *Session {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Session{
		api:        api,
		store:      store,
		engine:     browse.NewEngine(),
		log:        log,
		likeCounts: map[string]int{},
	}
}

func (s *Session) Engine() *browse.Engine { return s.engine }

func (s *Session) API() *Client { return s.api }

// Restore picks up a token saved by an earlier run. Expired tokens are
// dropped and the session stays anonymous.
func (s *Session) Restore(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	token, id, ok, err := s.store.Load()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	s.setIdentity(token, id)
	return s.RefreshLiked(ctx)
}

func (s *Session) Signup(ctx context.Context, email, password string) error {
	token, err := s.api.Signup(ctx, email, password)
	if err != nil {
		return err
	}
	return s.adopt(ctx, token)
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return s.adopt(ctx, token)
}

func (s *Session) adopt(ctx context.Context, token string) error {
	id, err := IdentityFromToken(token)
	if err != nil {
		return err
	}
	if s.store != nil {
		if err := s.store.Save(token); err != nil {
			return err
		}
	}
	s.setIdentity(token, id)
	s.log.Debug("session started", "user_id", id.UserID, "expires_at", id.ExpiresAt)
	return s.RefreshLiked(ctx)
}

func (s *Session) setIdentity(token string, id Identity) {
	s.api.SetToken(token)
	s.mu.Lock()
	s.identity = &id
	s.mu.Unlock()
}

// Logout forgets the identity locally even when the server call fails.
func (s *Session) Logout(ctx context.Context) error {
	var serverErr error
	if s.api.Token() != "" {
		serverErr = s.api.Logout(ctx)
		if serverErr != nil {
			s.log.Warn("server logout failed", "err", serverErr)
		}
	}

	s.api.SetToken("")
	s.mu.Lock()
	s.identity = nil
	s.liked = nil
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Clear(); err != nil {
			return err
		}
	}
	return serverErr
}

// Identity returns the current identity, if any.
func (s *Session) Identity() (Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

func (s *Session) userID() (string, error) {
	id, ok := s.Identity()
	if !ok {
		return "", ErrNotLoggedIn
	}
	return id.UserID, nil
}

// RefreshCatalog fetches the catalog and loads it into the engine. When two
// fetches overlap, the response of the one started last wins and an older
// response arriving late is discarded.
func (s *Session) RefreshCatalog(ctx context.Context) (bool, error) {
	gen := s.fetchGen.Add(1)

	books, err := s.api.ListBooks(ctx)
	if err != nil {
		return false, err
	}

	view := make([]browse.Book, 0, len(books))
	counts := make(map[string]int, len(books))
	for _, b := range books {
		view = append(view, b.ToBrowse())
		counts[b.ID] = b.TotalLikes
	}

	// Hold mu across Load so counts and catalog come from the same fetch.
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.engine.Load(gen, view) {
		s.log.Debug("stale catalog response dropped", "generation", gen)
		return false, nil
	}
	s.likeCounts = counts
	return true, nil
}

// RefreshLiked replaces the liked-set with the server copy.
func (s *Session) RefreshLiked(ctx context.Context) error {
	uid, err := s.userID()
	if err != nil {
		return err
	}
	books, err := s.api.LikedBooks(ctx, uid)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.liked = books
	s.mu.Unlock()
	return nil
}

// Like marks the book as liked. The local liked-set is replaced with the
// server's answer, never appended to.
func (s *Session) Like(ctx context.Context, bookID string) error {
	uid, err := s.userID()
	if err != nil {
		return err
	}
	books, err := s.api.Like(ctx, uid, bookID)
	if err != nil {
		return err
	}
	s.applyLiked(books, bookID)
	return nil
}

func (s *Session) Unlike(ctx context.Context, bookID string) error {
	uid, err := s.userID()
	if err != nil {
		return err
	}
	books, err := s.api.Unlike(ctx, uid, bookID)
	if err != nil {
		return err
	}
	s.applyLiked(books, bookID)
	return nil
}

// applyLiked swaps in the server liked-set and moves the counter of bookID by
// the change in its membership.
func (s *Session) applyLiked(books []book.Book, bookID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	was := containsBook(s.liked, bookID)
	now := containsBook(books, bookID)
	s.liked = books

	switch {
	case now && !was:
		s.likeCounts[bookID]++
	case was && !now && s.likeCounts[bookID] > 0:
		s.likeCounts[bookID]--
	}
}

func containsBook(books []book.Book, id string) bool {
	return slices.ContainsFunc(books, func(b book.Book) bool { return b.ID == id })
}

func (s *Session) Liked() []book.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.liked)
}

func (s *Session) IsLiked(bookID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsBook(s.liked, bookID)
}

// LikeCount is the like counter of a book, keyed by id so it stays correct
// whatever the displayed order.
func (s *Session) LikeCount(bookID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.likeCounts[bookID]
}
