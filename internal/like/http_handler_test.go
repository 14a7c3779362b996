package like

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookcatalog/internal/book"
	"bookcatalog/internal/httpx"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userID = "5d2f1a7e-8c39-4c0e-b1b4-0b6f3e9b7a01"
	bk1    = "a1c2e3f4-1111-4a2b-9c3d-000000000001"
	bk2    = "a1c2e3f4-2222-4a2b-9c3d-000000000002"
)

type fixture struct {
	handler *HTTPHandler
	repo    *MockRepository
	users   *MockUsers
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	repo := NewMockRepository(ctrl)
	users := NewMockUsers(ctrl)
	return fixture{handler: NewHTTPHandler(NewService(repo, users), nil), repo: repo, users: users}
}

func authed(method, target, body, bookID string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	r.SetPathValue("id", bookID)
	return r.WithContext(httpx.ContextWithIdentity(r.Context(), httpx.Identity{UserID: userID}))
}

type likedEnvelope struct {
	Data struct {
		Message    string      `json:"message"`
		LikedBooks []book.Book `json:"likedBooks"`
	} `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) likedEnvelope {
	t.Helper()
	var env likedEnvelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env))
	return env
}

func ids(books []book.Book) []string {
	out := []string{}
	for _, b := range books {
		out = append(out, b.ID)
	}
	return out
}

func TestLikeFlow(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Add(gomock.Any(), userID, bk1).Return(true, nil)
	f.repo.EXPECT().LikedBooks(gomock.Any(), userID).Return([]book.Book{{ID: bk1, Title: "Dune", TotalLikes: 1}}, nil)

	w := httptest.NewRecorder()
	f.handler.Like(w, authed(http.MethodPost, "/books/"+bk1+"/like", `{"userId":"`+userID+`"}`, bk1))

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Book liked successfully", env.Data.Message)
	assert.Equal(t, []string{bk1}, ids(env.Data.LikedBooks))
	assert.Equal(t, "Dune", env.Data.LikedBooks[0].Title)

	f.repo.EXPECT().Add(gomock.Any(), userID, bk1).Return(false, nil)

	w = httptest.NewRecorder()
	f.handler.Like(w, authed(http.MethodPost, "/books/"+bk1+"/like", "", bk1))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env = decode(t, w)
	assert.Equal(t, CodeAlreadyLiked, env.Error.Code)
	assert.Equal(t, "Book is already liked", env.Error.Message)
}

func TestUnlikeAbsentBook(t *testing.T) {
	f := newFixture(t)

	f.users.EXPECT().Exists(gomock.Any(), userID).Return(true, nil)
	f.repo.EXPECT().Remove(gomock.Any(), userID, bk2).Return(nil)
	f.repo.EXPECT().LikedBooks(gomock.Any(), userID).Return([]book.Book{{ID: bk1}}, nil)

	w := httptest.NewRecorder()
	f.handler.Unlike(w, authed(http.MethodPost, "/books/"+bk2+"/unlike", "", bk2))

	require.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	assert.Equal(t, "Book unliked successfully", env.Data.Message)
	assert.Equal(t, []string{bk1}, ids(env.Data.LikedBooks))
}

func TestLike_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		bookID string
		setup  func(f fixture)
		want   int
	}{
		{
			name:   "body user differs from token",
			body:   `{"userId":"99999999-9999-4999-8999-999999999999"}`,
			bookID: bk1,
			setup:  func(fixture) {},
			want:   http.StatusForbidden,
		},
		{
			name:   "malformed book id",
			bookID: "not-an-id",
			setup:  func(fixture) {},
			want:   http.StatusBadRequest,
		},
		{
			name:   "malformed body",
			body:   `{"userId":`,
			bookID: bk1,
			setup:  func(fixture) {},
			want:   http.StatusBadRequest,
		},
		{
			name:   "unknown book",
			bookID: bk1,
			setup: func(f fixture) {
				f.repo.EXPECT().Add(gomock.Any(), userID, bk1).Return(false, ErrBookNotFound)
			},
			want: http.StatusNotFound,
		},
		{
			name:   "storage failure",
			bookID: bk1,
			setup: func(f fixture) {
				f.repo.EXPECT().Add(gomock.Any(), userID, bk1).Return(false, errors.New("conn reset"))
			},
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			tt.setup(f)

			w := httptest.NewRecorder()
			f.handler.Like(w, authed(http.MethodPost, "/books/x/like", tt.body, tt.bookID))

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestLike_RequiresIdentity(t *testing.T) {
	f := newFixture(t)

	r := httptest.NewRequest(http.MethodPost, "/books/"+bk1+"/like", nil)
	r.SetPathValue("id", bk1)
	w := httptest.NewRecorder()

	f.handler.Like(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestLikedBooks(t *testing.T) {
	t.Run("known user", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exists(gomock.Any(), userID).Return(true, nil)
		f.repo.EXPECT().LikedBooks(gomock.Any(), userID).Return([]book.Book{}, nil)

		r := httptest.NewRequest(http.MethodGet, "/users/"+userID+"/liked_books", nil)
		r.SetPathValue("id", userID)
		w := httptest.NewRecorder()

		f.handler.LikedBooks(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"likedBooks":[]`)
	})

	t.Run("unknown user", func(t *testing.T) {
		f := newFixture(t)
		f.users.EXPECT().Exists(gomock.Any(), userID).Return(false, nil)

		r := httptest.NewRequest(http.MethodGet, "/users/"+userID+"/liked_books", nil)
		r.SetPathValue("id", userID)
		w := httptest.NewRecorder()

		f.handler.LikedBooks(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
