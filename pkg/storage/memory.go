package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"textbook_market/pkg/models"
)

// MemStore keeps every collection in process memory. Nothing survives a
// restart. Records are cloned on the way in and out so no caller shares
// memory with the store.
type MemStore struct {
	mu      sync.RWMutex
	now     Clock
	users   map[string]models.User
	books   map[string]models.Book
	orders  map[string]models.Order
	reviews map[string]models.Review

	// Insertion order of users and reviews, which are never deleted. First
	// match lookups scan these.
	userIDs   []string
	reviewIDs []string
}

type MemOption func(*MemStore)

func WithClock(clock Clock) MemOption {
	return func(s *MemStore) {
		s.now = clock
	}
}

func NewMemStore(opts ...MemOption) *MemStore {
	s := &MemStore{
		now:     time.Now,
		users:   make(map[string]models.User),
		books:   make(map[string]models.Book),
		orders:  make(map[string]models.Order),
		reviews: make(map[string]models.Review),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	user = user.Clone()
	return &user, nil
}

func (s *MemStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.userIDs {
		if user := s.users[id]; user.Username == username {
			user = user.Clone()
			return &user, nil
		}
	}
	return nil, nil
}

func (s *MemStore) CreateUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := models.User{
		ID:        uuid.New().String(),
		Username:  in.Username,
		Password:  in.Password,
		Email:     in.Email,
		Phone:     in.Phone,
		School:    in.School,
		CreatedAt: s.now(),
	}.Clone()
	s.users[user.ID] = user
	s.userIDs = append(s.userIDs, user.ID)
	user = user.Clone()
	return &user, nil
}

func (s *MemStore) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	return s.filterBooks(func(models.Book) bool { return true }), nil
}

func (s *MemStore) GetBook(ctx context.Context, id string) (*models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	book, ok := s.books[id]
	if !ok {
		return nil, nil
	}
	book = book.Clone()
	return &book, nil
}

func (s *MemStore) GetBooksBySeller(ctx context.Context, sellerID string) ([]models.Book, error) {
	return s.filterBooks(func(b models.Book) bool { return b.SellerID == sellerID }), nil
}

func (s *MemStore) GetSoldBooks(ctx context.Context) ([]models.Book, error) {
	return s.filterBooks(func(b models.Book) bool { return b.Status == models.BookSold }), nil
}

func (s *MemStore) SearchBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	return s.filterBooks(func(b models.Book) bool { return matchesFilter(b, filter) }), nil
}

func (s *MemStore) CreateBook(ctx context.Context, in models.NewBook) (*models.Book, error) {
	status := in.Status
	if status == "" {
		status = models.BookAvailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	book := models.Book{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Author:      in.Author,
		Subject:     in.Subject,
		Price:       in.Price,
		Condition:   in.Condition,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		SellerID:    in.SellerID,
		Status:      status,
		CreatedAt:   s.now(),
	}.Clone()
	s.books[book.ID] = book
	book = book.Clone()
	return &book, nil
}

func (s *MemStore) UpdateBook(ctx context.Context, id string, patch models.BookPatch) (*models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	book, ok := s.books[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&book)
	s.books[id] = book
	book = book.Clone()
	return &book, nil
}

func (s *MemStore) DeleteBook(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return false, nil
	}
	delete(s.books, id)
	return true, nil
}

func (s *MemStore) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.filterOrders(func(models.Order) bool { return true }), nil
}

func (s *MemStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	order = order.Clone()
	return &order, nil
}

func (s *MemStore) GetOrdersByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	return s.filterOrders(func(o models.Order) bool { return o.BuyerID == buyerID }), nil
}

func (s *MemStore) GetOrdersBySeller(ctx context.Context, sellerID string) ([]models.Order, error) {
	return s.filterOrders(func(o models.Order) bool { return o.SellerID == sellerID }), nil
}

func (s *MemStore) GetCompletedOrders(ctx context.Context) ([]models.Order, error) {
	return s.filterOrders(func(o models.Order) bool { return o.Status == models.OrderCompleted }), nil
}

func (s *MemStore) CreateOrder(ctx context.Context, in models.NewOrder) (*models.Order, error) {
	status := in.Status
	if status == "" {
		status = models.OrderPending
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order := models.Order{
		ID:        uuid.New().String(),
		BookID:    in.BookID,
		BuyerID:   in.BuyerID,
		SellerID:  in.SellerID,
		Status:    status,
		Message:   in.Message,
		CreatedAt: s.now(),
	}.Clone()
	s.orders[order.ID] = order
	order = order.Clone()
	return &order, nil
}

func (s *MemStore) UpdateOrder(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	patch.Apply(&order)
	s.orders[id] = order
	order = order.Clone()
	return &order, nil
}

func (s *MemStore) GetAllReviews(ctx context.Context) ([]models.Review, error) {
	return s.filterReviews(func(models.Review) bool { return true }), nil
}

func (s *MemStore) GetReviewsBySeller(ctx context.Context, sellerID string) ([]models.Review, error) {
	return s.filterReviews(func(r models.Review) bool { return r.SellerID == sellerID }), nil
}

func (s *MemStore) GetReviewByOrder(ctx context.Context, orderID string) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reviewByOrderLocked(orderID), nil
}

func (s *MemStore) CreateReview(ctx context.Context, in models.NewReview) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createReviewLocked(in), nil
}

func (s *MemStore) CreateReviewForOrder(ctx context.Context, in models.NewReview) (*models.Review, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing := s.reviewByOrderLocked(in.OrderID); existing != nil {
		return existing, false, nil
	}
	return s.createReviewLocked(in), true, nil
}

func (s *MemStore) GetSellerRating(ctx context.Context, sellerID string) (models.SellerRating, error) {
	reviews, err := s.GetReviewsBySeller(ctx, sellerID)
	if err != nil {
		return models.SellerRating{}, err
	}
	return SellerRatingOf(reviews), nil
}

func (s *MemStore) GetTransactionStats(ctx context.Context) (models.TransactionStats, error) {
	sold, err := s.GetSoldBooks(ctx)
	if err != nil {
		return models.TransactionStats{}, err
	}
	return TransactionStatsOf(sold), nil
}

// reviewByOrderLocked returns the first review stored for the order. Later
// ones can only exist when they came in through CreateReview.
func (s *MemStore) reviewByOrderLocked(orderID string) *models.Review {
	for _, id := range s.reviewIDs {
		if review := s.reviews[id]; review.OrderID == orderID {
			review = review.Clone()
			return &review
		}
	}
	return nil
}

func (s *MemStore) createReviewLocked(in models.NewReview) *models.Review {
	review := models.Review{
		ID:        uuid.New().String(),
		SellerID:  in.SellerID,
		BuyerID:   in.BuyerID,
		OrderID:   in.OrderID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: s.now(),
	}.Clone()
	s.reviews[review.ID] = review
	s.reviewIDs = append(s.reviewIDs, review.ID)
	review = review.Clone()
	return &review
}

func (s *MemStore) filterBooks(keep func(models.Book) bool) []models.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	books := make([]models.Book, 0, len(s.books))
	for _, b := range s.books {
		if keep(b) {
			books = append(books, b.Clone())
		}
	}
	return sortBooks(books)
}

func (s *MemStore) filterOrders(keep func(models.Order) bool) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	orders := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if keep(o) {
			orders = append(orders, o.Clone())
		}
	}
	return sortOrders(orders)
}

func (s *MemStore) filterReviews(keep func(models.Review) bool) []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reviews := make([]models.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		if keep(r) {
			reviews = append(reviews, r.Clone())
		}
	}
	return sortReviews(reviews)
}

func matchesFilter(b models.Book, f models.BookFilter) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.Subject != "" && b.Subject != f.Subject {
		return false
	}
	if f.Condition != "" && b.Condition != f.Condition {
		return false
	}
	if f.MinPrice > 0 && b.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && b.Price > f.MaxPrice {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(b.Title), q) &&
			!strings.Contains(strings.ToLower(b.Author), q) &&
			!strings.Contains(strings.ToLower(b.Subject), q) {
			return false
		}
	}
	return true
}
