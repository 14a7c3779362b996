package book

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_UpdateNoChanges(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	stored := Book{ID: testBookID, Title: "Dune"}
	mockRepo.EXPECT().GetByID(gomock.Any(), testBookID).Return(stored, nil)

	got, err := svc.Update(context.Background(), testBookID, UpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, stored, got)
}

func TestService_InvalidIDSkipsRepository(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewService(NewMockRepository(ctrl))

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.ErrorIs(t, svc.Delete(context.Background(), "nope"), ErrInvalidID)
}

func TestService_ListWrapsErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	boom := errors.New("boom")
	mockRepo.EXPECT().List(gomock.Any()).Return(nil, boom)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestUpdateInput_Apply(t *testing.T) {
	title, year := "New", 2001
	b := Book{Title: "Old", Author: "Kept"}

	UpdateInput{Title: &title, Year: &year}.Apply(&b)

	assert.Equal(t, "New", b.Title)
	assert.Equal(t, "Kept", b.Author)
	require.NotNil(t, b.Year)
	assert.Equal(t, 2001, *b.Year)
	assert.False(t, UpdateInput{Title: &title}.Empty())
	assert.True(t, UpdateInput{}.Empty())
}

func TestBook_ToBrowse(t *testing.T) {
	year := 1965
	b := Book{ID: testBookID, Title: "Dune", Year: &year, Price: 9.5, Rating: 4, TotalLikes: 2}
	got := b.ToBrowse()
	assert.Equal(t, testBookID, got.ID)
	assert.Equal(t, 2, got.TotalLikes)
	assert.Equal(t, 9.5, got.Price)
}

func TestService_CreateTrimsTextFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	year, price, rating := 1965, 18.0, 4.5
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, b *Book) error {
		assert.Equal(t, "Dune", b.Title)
		assert.Equal(t, "Frank Herbert", b.Author)
		assert.Equal(t, "Fiction", b.Category)
		assert.Equal(t, "https://example.com/dune.jpg", b.Image)
		b.ID = testBookID
		return nil
	})

	got, err := svc.Create(context.Background(), CreateInput{
		Title: "  Dune ", Author: "Frank Herbert\n", Year: &year, Category: "Fiction ",
		Price: &price, Rating: &rating, Image: " https://example.com/dune.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "Fiction", got.Category)
}

func TestService_UpdateTrimsTextFields(t *testing.T) {
	ctrl := gomock.NewController(t)
	mockRepo := NewMockRepository(ctrl)
	svc := NewService(mockRepo)

	mockRepo.EXPECT().GetByID(gomock.Any(), testBookID).Return(Book{ID: testBookID, Title: "Dune", Category: "fiction"}, nil)
	mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil)

	category, title := " Science\t", "Dune "
	got, err := svc.Update(context.Background(), testBookID, UpdateInput{Category: &category, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Science", got.Category)
	assert.Equal(t, "Dune", got.Title)
}
