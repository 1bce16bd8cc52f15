package service

import (
	"testing"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productRating(t *testing.T, s *services, productID uint) float64 {
	t.Helper()
	var p model.Product
	require.NoError(t, s.db.First(&p, productID).Error)
	return p.Rating
}

func TestReviewService_RatingFollowsReviews(t *testing.T) {
	s := setupServices(t)
	jane := createUser(t, s.db, "jane")
	john := createUser(t, s.db, "john")
	p := createProduct(t, s.db, "Mug", 5)

	_, err := s.reviews.Create(jane.ID, p.ID, ReviewInput{Rating: 5, Comment: "Great"})
	require.NoError(t, err)
	_, err = s.reviews.Create(john.ID, p.ID, ReviewInput{Rating: 3, Comment: "Fine"})
	require.NoError(t, err)
	assert.Equal(t, 4.0, productRating(t, s, p.ID))

	_, err = s.reviews.Update(jane.ID, p.ID, ReviewInput{Rating: 3, Comment: "Changed my mind"})
	require.NoError(t, err)
	assert.Equal(t, 3.0, productRating(t, s, p.ID))

	_, err = s.reviews.Update(john.ID, p.ID, ReviewInput{Rating: 1, Comment: "Broke"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, productRating(t, s, p.ID))

	require.NoError(t, s.reviews.Delete(jane.ID, p.ID))
	require.NoError(t, s.reviews.Delete(john.ID, p.ID))
	assert.Equal(t, 0.0, productRating(t, s, p.ID))
}

func TestReviewService_CreateRejects(t *testing.T) {
	s := setupServices(t)
	jane := createUser(t, s.db, "jane")
	p := createProduct(t, s.db, "Mug", 5)

	_, err := s.reviews.Create(jane.ID, p.ID, ReviewInput{Rating: 4, Comment: "Nice"})
	require.NoError(t, err)

	tests := []struct {
		name      string
		productID uint
		input     ReviewInput
		want      error
	}{
		{"duplicate", p.ID, ReviewInput{Rating: 2, Comment: "Again"}, ErrReviewExists},
		{"blank comment", p.ID, ReviewInput{Rating: 2, Comment: "  "}, ErrReviewCommentEmpty},
		{"rating too low", p.ID, ReviewInput{Rating: 0, Comment: "x"}, ErrReviewRatingTooLow},
		{"rating too high", p.ID, ReviewInput{Rating: 6, Comment: "x"}, ErrReviewRatingTooHigh},
		{"unknown product", 999, ReviewInput{Rating: 2, Comment: "x"}, ErrProductNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.reviews.Create(jane.ID, tt.productID, tt.input)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, 4.0, productRating(t, s, p.ID))
}

func TestReviewService_UpdateDeleteRequireOwnReview(t *testing.T) {
	s := setupServices(t)
	jane := createUser(t, s.db, "jane")
	john := createUser(t, s.db, "john")
	p := createProduct(t, s.db, "Mug", 5)

	_, err := s.reviews.Create(jane.ID, p.ID, ReviewInput{Rating: 4, Comment: "Nice"})
	require.NoError(t, err)

	_, err = s.reviews.Update(john.ID, p.ID, ReviewInput{Rating: 1, Comment: "x"})
	assert.ErrorIs(t, err, ErrReviewNotFound)
	assert.ErrorIs(t, s.reviews.Delete(john.ID, p.ID), ErrReviewNotFound)
}

func TestReviewService_List(t *testing.T) {
	s := setupServices(t)
	jane := createUser(t, s.db, "jane")
	p := createProduct(t, s.db, "Mug", 5)

	_, err := s.reviews.Create(jane.ID, p.ID, ReviewInput{Rating: 4, Comment: "Nice"})
	require.NoError(t, err)

	reviews, err := s.reviews.List(p.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	require.NotNil(t, reviews[0].User)
	assert.Equal(t, "jane", reviews[0].User.Username)

	_, err = s.reviews.List(999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}
