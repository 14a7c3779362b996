package book

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bookcatalog/internal/httpx"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBookID = "0b7b9c5e-2f7a-4d38-9a77-5c8f2d0e4a11"

func newTestHandler(t *testing.T) (*HTTPHandler, *MockRepository) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	return NewHTTPHandler(NewService(mockRepo), nil), mockRepo
}

func TestHTTPHandler_List(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	testBook := Book{ID: testBookID, Title: "Dune", Category: "fiction", Price: 9.5, Rating: 4.5, TotalLikes: 3}

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any()).Return([]Book{testBook}, nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/books", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data []map[string]any `json:"data"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		require.Len(t, resp.Data, 1)
		assert.EqualValues(t, 3, resp.Data[0]["totalLikes"])
		assert.NotContains(t, resp.Data[0], "year")
	})

	t.Run("error", func(t *testing.T) {
		mockRepo.EXPECT().List(gomock.Any()).Return(nil, context.DeadlineExceeded)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/books", nil)

		handler.List(w, r)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestHTTPHandler_Get(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	tests := []struct {
		name  string
		id    string
		setup func()
		want  int
	}{
		{
			name:  "success",
			id:    testBookID,
			setup: func() { mockRepo.EXPECT().GetByID(gomock.Any(), testBookID).Return(Book{ID: testBookID}, nil) },
			want:  http.StatusOK,
		},
		{
			name:  "not found",
			id:    testBookID,
			setup: func() { mockRepo.EXPECT().GetByID(gomock.Any(), testBookID).Return(Book{}, ErrNotFound) },
			want:  http.StatusNotFound,
		},
		{
			name:  "malformed id",
			id:    "123",
			setup: func() {},
			want:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/books/"+tt.id, nil)
			r.SetPathValue("id", tt.id)

			handler.Get(w, r)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHTTPHandler_Create(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	valid := `{"title":"Dune","author":"Frank Herbert","year":1965,"category":"fiction","price":9.5,"rating":4.5,"image":"https://img/dune.jpg"}`

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			assert.Equal(t, "Dune", b.Title)
			require.NotNil(t, b.Year)
			assert.Equal(t, 1965, *b.Year)
			b.ID = testBookID
			return nil
		})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(valid))

		handler.Create(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), testBookID)
	})

	invalid := []struct {
		name  string
		body  string
		field string
	}{
		{name: "missing title", body: `{"author":"a","year":1,"category":"c","price":1,"rating":1,"image":"i"}`, field: "title"},
		{name: "blank author", body: `{"title":"t","author":"  ","year":1,"category":"c","price":1,"rating":1,"image":"i"}`, field: "author"},
		{name: "missing year", body: `{"title":"t","author":"a","category":"c","price":1,"rating":1,"image":"i"}`, field: "year"},
		{name: "zero price", body: `{"title":"t","author":"a","year":1,"category":"c","price":0,"rating":1,"image":"i"}`, field: "price"},
		{name: "rating above five", body: `{"title":"t","author":"a","year":1,"category":"c","price":1,"rating":6,"image":"i"}`, field: "rating"},
		{name: "rating below one", body: `{"title":"t","author":"a","year":1,"category":"c","price":1,"rating":0.5,"image":"i"}`, field: "rating"},
		{name: "missing image", body: `{"title":"t","author":"a","year":1,"category":"c","price":1,"rating":1}`, field: "image"},
	}

	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(tt.body))

			handler.Create(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp httpx.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, httpx.CodeValidation, resp.Error.Code)
			fields := []string{}
			for _, d := range resp.Error.Details {
				fields = append(fields, d.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}

	t.Run("year as string", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"title":"t","author":"a","year":"1965","category":"c","price":1,"rating":1,"image":"i"}`))

		handler.Create(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHTTPHandler_Update(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("partial update", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), testBookID).Return(Book{ID: testBookID, Title: "Old", Price: 5, Rating: 3}, nil)
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
			assert.Equal(t, "Old", b.Title)
			assert.Equal(t, 7.5, b.Price)
			return nil
		})

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/books/"+testBookID, strings.NewReader(`{"price":7.5}`))
		r.SetPathValue("id", testBookID)

		handler.Update(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("invalid rating", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/books/"+testBookID, strings.NewReader(`{"rating":9}`))
		r.SetPathValue("id", testBookID)

		handler.Update(w, r)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), testBookID).Return(Book{}, ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/books/"+testBookID, strings.NewReader(`{"title":"New"}`))
		r.SetPathValue("id", testBookID)

		handler.Update(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Delete(t *testing.T) {
	handler, mockRepo := newTestHandler(t)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), testBookID).Return(nil)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/books/"+testBookID, nil)
		r.SetPathValue("id", testBookID)

		handler.Delete(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Book deleted successfully")
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().Delete(gomock.Any(), testBookID).Return(ErrNotFound)

		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodDelete, "/books/"+testBookID, nil)
		r.SetPathValue("id", testBookID)

		handler.Delete(w, r)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
