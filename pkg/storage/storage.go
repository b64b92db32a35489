// Package storage owns every marketplace record. Lookups that find nothing
// return a nil pointer and a nil error; the error result is reserved for a
// failing backend.
package storage

import (
	"context"
	"sort"
	"time"

	"textbook_market/pkg/models"
)

type Storage interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, in models.NewUser) (*models.User, error)

	GetAllBooks(ctx context.Context) ([]models.Book, error)
	GetBook(ctx context.Context, id string) (*models.Book, error)
	GetBooksBySeller(ctx context.Context, sellerID string) ([]models.Book, error)
	GetSoldBooks(ctx context.Context) ([]models.Book, error)
	SearchBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error)
	CreateBook(ctx context.Context, in models.NewBook) (*models.Book, error)
	UpdateBook(ctx context.Context, id string, patch models.BookPatch) (*models.Book, error)
	DeleteBook(ctx context.Context, id string) (bool, error)

	GetAllOrders(ctx context.Context) ([]models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrdersByBuyer(ctx context.Context, buyerID string) ([]models.Order, error)
	GetOrdersBySeller(ctx context.Context, sellerID string) ([]models.Order, error)
	GetCompletedOrders(ctx context.Context) ([]models.Order, error)
	CreateOrder(ctx context.Context, in models.NewOrder) (*models.Order, error)
	UpdateOrder(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error)

	GetAllReviews(ctx context.Context) ([]models.Review, error)
	GetReviewsBySeller(ctx context.Context, sellerID string) ([]models.Review, error)
	GetReviewByOrder(ctx context.Context, orderID string) (*models.Review, error)
	// CreateReview stores the review unconditionally, even when the order
	// already has one.
	CreateReview(ctx context.Context, in models.NewReview) (*models.Review, error)
	// CreateReviewForOrder atomically checks that the order has no review yet
	// and creates one. created is false, and review is the existing one, when
	// the order was already reviewed.
	CreateReviewForOrder(ctx context.Context, in models.NewReview) (review *models.Review, created bool, err error)

	GetSellerRating(ctx context.Context, sellerID string) (models.SellerRating, error)
	GetTransactionStats(ctx context.Context) (models.TransactionStats, error)

	Ping(ctx context.Context) error
}

// Clock supplies creation timestamps.
type Clock func() time.Time

func newest[T any](items []T, createdAt func(T) time.Time, id func(T) string) []T {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := createdAt(items[i]), createdAt(items[j])
		if !a.Equal(b) {
			return a.After(b)
		}
		return id(items[i]) < id(items[j])
	})
	return items
}

func sortBooks(books []models.Book) []models.Book {
	return newest(books,
		func(b models.Book) time.Time { return b.CreatedAt },
		func(b models.Book) string { return b.ID })
}

func sortOrders(orders []models.Order) []models.Order {
	return newest(orders,
		func(o models.Order) time.Time { return o.CreatedAt },
		func(o models.Order) string { return o.ID })
}

func sortReviews(reviews []models.Review) []models.Review {
	return newest(reviews,
		func(r models.Review) time.Time { return r.CreatedAt },
		func(r models.Review) string { return r.ID })
}
