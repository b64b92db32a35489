package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"textbook_market/pkg/models"
)

// SQLStore implements Storage on top of gorm. With sqlite ":memory:" it is as
// volatile as MemStore; with postgres the data outlives the process.
type SQLStore struct {
	db  *gorm.DB
	now Clock
}

func NewSQLStore(db *gorm.DB, clock Clock) *SQLStore {
	if clock == nil {
		clock = time.Now
	}
	return &SQLStore{db: db, now: clock}
}

// Migrate creates or updates the tables for all four collections.
func (s *SQLStore) Migrate() error {
	return s.db.AutoMigrate(&models.User{}, &models.Book{}, &models.Order{}, &models.Review{})
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	return firstOrNil(s.db.WithContext(ctx).Where("id = ?", id), &user)
}

func (s *SQLStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	return firstOrNil(s.db.WithContext(ctx).Where("username = ?", username).Order("created_at ASC"), &user)
}

func (s *SQLStore) CreateUser(ctx context.Context, in models.NewUser) (*models.User, error) {
	user := models.User{
		ID:        uuid.New().String(),
		Username:  in.Username,
		Password:  in.Password,
		Email:     in.Email,
		Phone:     in.Phone,
		School:    in.School,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

func (s *SQLStore) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	return s.findBooks(s.db.WithContext(ctx))
}

func (s *SQLStore) GetBook(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	return firstOrNil(s.db.WithContext(ctx).Where("id = ?", id), &book)
}

func (s *SQLStore) GetBooksBySeller(ctx context.Context, sellerID string) ([]models.Book, error) {
	return s.findBooks(s.db.WithContext(ctx).Where("seller_id = ?", sellerID))
}

func (s *SQLStore) GetSoldBooks(ctx context.Context) ([]models.Book, error) {
	return s.findBooks(s.db.WithContext(ctx).Where("status = ?", models.BookSold))
}

func (s *SQLStore) SearchBooks(ctx context.Context, f models.BookFilter) ([]models.Book, error) {
	query := s.db.WithContext(ctx)
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Subject != "" {
		query = query.Where("subject = ?", f.Subject)
	}
	if f.Condition != "" {
		query = query.Where("condition = ?", f.Condition)
	}
	if f.MinPrice > 0 {
		query = query.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		query = query.Where("price <= ?", f.MaxPrice)
	}
	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(subject) LIKE ?", like, like, like)
	}
	return s.findBooks(query)
}

func (s *SQLStore) CreateBook(ctx context.Context, in models.NewBook) (*models.Book, error) {
	status := in.Status
	if status == "" {
		status = models.BookAvailable
	}
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
	}
	if err := s.db.WithContext(ctx).Create(&book).Error; err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return &book, nil
}

func (s *SQLStore) UpdateBook(ctx context.Context, id string, patch models.BookPatch) (*models.Book, error) {
	var updated *models.Book
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book models.Book
		found, err := firstOrNil(tx.Where("id = ?", id), &book)
		if err != nil || found == nil {
			return err
		}
		patch.Apply(found)
		if err := tx.Save(found).Error; err != nil {
			return err
		}
		updated = found
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update book %s: %w", id, err)
	}
	return updated, nil
}

func (s *SQLStore) DeleteBook(ctx context.Context, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Book{})
	if res.Error != nil {
		return false, fmt.Errorf("delete book %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *SQLStore) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return s.findOrders(s.db.WithContext(ctx))
}

func (s *SQLStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	return firstOrNil(s.db.WithContext(ctx).Where("id = ?", id), &order)
}

func (s *SQLStore) GetOrdersByBuyer(ctx context.Context, buyerID string) ([]models.Order, error) {
	return s.findOrders(s.db.WithContext(ctx).Where("buyer_id = ?", buyerID))
}

func (s *SQLStore) GetOrdersBySeller(ctx context.Context, sellerID string) ([]models.Order, error) {
	return s.findOrders(s.db.WithContext(ctx).Where("seller_id = ?", sellerID))
}

func (s *SQLStore) GetCompletedOrders(ctx context.Context) ([]models.Order, error) {
	return s.findOrders(s.db.WithContext(ctx).Where("status = ?", models.OrderCompleted))
}

func (s *SQLStore) CreateOrder(ctx context.Context, in models.NewOrder) (*models.Order, error) {
	status := in.Status
	if status == "" {
		status = models.OrderPending
	}
	order := models.Order{
		ID:        uuid.New().String(),
		BookID:    in.BookID,
		BuyerID:   in.BuyerID,
		SellerID:  in.SellerID,
		Status:    status,
		Message:   in.Message,
		CreatedAt: s.now(),
	}
	if err := s.db.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &order, nil
}

func (s *SQLStore) UpdateOrder(ctx context.Context, id string, patch models.OrderPatch) (*models.Order, error) {
	var updated *models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order models.Order
		found, err := firstOrNil(tx.Where("id = ?", id), &order)
		if err != nil || found == nil {
			return err
		}
		patch.Apply(found)
		if err := tx.Save(found).Error; err != nil {
			return err
		}
		updated = found
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update order %s: %w", id, err)
	}
	return updated, nil
}

func (s *SQLStore) GetAllReviews(ctx context.Context) ([]models.Review, error) {
	return s.findReviews(s.db.WithContext(ctx))
}

func (s *SQLStore) GetReviewsBySeller(ctx context.Context, sellerID string) ([]models.Review, error) {
	return s.findReviews(s.db.WithContext(ctx).Where("seller_id = ?", sellerID))
}

func (s *SQLStore) GetReviewByOrder(ctx context.Context, orderID string) (*models.Review, error) {
	var review models.Review
	return firstOrNil(s.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at ASC"), &review)
}

func (s *SQLStore) CreateReview(ctx context.Context, in models.NewReview) (*models.Review, error) {
	review := s.newReview(in)
	if err := s.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func (s *SQLStore) CreateReviewForOrder(ctx context.Context, in models.NewReview) (*models.Review, bool, error) {
	var (
		review  *models.Review
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Review
		found, err := firstOrNil(tx.Where("order_id = ?", in.OrderID).Order("created_at ASC"), &existing)
		if err != nil {
			return err
		}
		if found != nil {
			review = found
			return nil
		}
		review = s.newReview(in)
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("create review for order %s: %w", in.OrderID, err)
	}
	return review, created, nil
}

func (s *SQLStore) GetSellerRating(ctx context.Context, sellerID string) (models.SellerRating, error) {
	reviews, err := s.GetReviewsBySeller(ctx, sellerID)
	if err != nil {
		return models.SellerRating{}, err
	}
	return SellerRatingOf(reviews), nil
}

func (s *SQLStore) GetTransactionStats(ctx context.Context) (models.TransactionStats, error) {
	sold, err := s.GetSoldBooks(ctx)
	if err != nil {
		return models.TransactionStats{}, err
	}
	return TransactionStatsOf(sold), nil
}

func (s *SQLStore) newReview(in models.NewReview) *models.Review {
	return &models.Review{
		ID:        uuid.New().String(),
		SellerID:  in.SellerID,
		BuyerID:   in.BuyerID,
		OrderID:   in.OrderID,
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: s.now(),
	}
}

func (s *SQLStore) findBooks(query *gorm.DB) ([]models.Book, error) {
	var books []models.Book
	if err := query.Order("created_at DESC").Order("id ASC").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

func (s *SQLStore) findOrders(query *gorm.DB) ([]models.Order, error) {
	var orders []models.Order
	if err := query.Order("created_at DESC").Order("id ASC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *SQLStore) findReviews(query *gorm.DB) ([]models.Review, error) {
	var reviews []models.Review
	if err := query.Order("created_at DESC").Order("id ASC").Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func firstOrNil[T any](query *gorm.DB, dest *T) (*T, error) {
	err := query.First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return dest, nil
}
