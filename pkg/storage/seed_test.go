package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textbook_market/pkg/models"
)

func TestSeed(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Storage) {
		ctx := context.Background()
		require.NoError(t, Seed(ctx, s))

		seller, err := s.GetUserByUsername(ctx, "demo_seller")
		require.NoError(t, err)
		require.NotNil(t, seller)
		buyer, err := s.GetUserByUsername(ctx, "demo_buyer")
		require.NoError(t, err)
		require.NotNil(t, buyer)

		books, err := s.GetAllBooks(ctx)
		require.NoError(t, err)
		assert.Len(t, books, 9)
		for _, b := range books {
			assert.NotEmpty(t, b.ID)
			assert.False(t, b.CreatedAt.IsZero(), "book %q has no timestamp", b.Title)
			assert.True(t, models.IsValidSubject(b.Subject), b.Subject)
			assert.True(t, models.IsValidCondition(b.Condition), b.Condition)
		}

		available, err := s.SearchBooks(ctx, models.BookFilter{Status: models.BookAvailable})
		require.NoError(t, err)
		assert.Len(t, available, 6)

		completed, err := s.GetCompletedOrders(ctx)
		require.NoError(t, err)
		require.Len(t, completed, 3)
		for _, o := range completed {
			book, err := s.GetBook(ctx, o.BookID)
			require.NoError(t, err)
			require.NotNil(t, book)
			assert.Equal(t, models.BookSold, book.Status)
			assert.Equal(t, book.SellerID, o.SellerID)

			review, err := s.GetReviewByOrder(ctx, o.ID)
			require.NoError(t, err)
			require.NotNil(t, review)
			assert.Equal(t, o.BuyerID, review.BuyerID)
		}

		stats, err := s.GetTransactionStats(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStats{TotalBooks: 3, TotalValue: 1270, CarbonSaved: 7.5}, stats)

		rating, err := s.GetSellerRating(ctx, seller.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SellerRating{Average: 5, Count: 2}, rating)

		rating, err = s.GetSellerRating(ctx, buyer.ID)
		require.NoError(t, err)
		assert.Equal(t, models.SellerRating{Average: 4, Count: 1}, rating)
	})
}

func TestSeedRunsOnce(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s Storage) {
		ctx := context.Background()
		require.NoError(t, Seed(ctx, s))
		require.NoError(t, Seed(ctx, s))

		books, err := s.GetAllBooks(ctx)
		require.NoError(t, err)
		assert.Len(t, books, 9)
		reviews, err := s.GetAllReviews(ctx)
		require.NoError(t, err)
		assert.Len(t, reviews, 3)
	})
}
