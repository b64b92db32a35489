package storage

import (
	"context"
	"fmt"

	"textbook_market/pkg/models"
)

func ptr[T any](v T) *T {
	return &v
}

// Seed fills s with a demo marketplace: two students, six listings, three
// completed sales and a review for each sale. Everything goes through the
// regular Create methods.
// A store that already has the demo seller is left alone.
func Seed(ctx context.Context, s Storage) error {
	existing, err := s.GetUserByUsername(ctx, "demo_seller")
	if err != nil {
		return fmt.Errorf("check seed data: %w", err)
	}
	if existing != nil {
		return nil
	}

	seller, err := s.CreateUser(ctx, models.NewUser{
		Username: "demo_seller",
		Password: "password123",
		Email:    "seller@school.edu.tw",
		Phone:    ptr("0912-345-678"),
		School:   ptr("National Taiwan University"),
	})
	if err != nil {
		return fmt.Errorf("seed seller: %w", err)
	}
	buyer, err := s.CreateUser(ctx, models.NewUser{
		Username: "demo_buyer",
		Password: "password123",
		Email:    "buyer@school.edu.tw",
		Phone:    ptr("0923-456-789"),
		School:   ptr("National Tsing Hua University"),
	})
	if err != nil {
		return fmt.Errorf("seed buyer: %w", err)
	}

	listings := []models.NewBook{
		{
			Title: "Calculus: Early Transcendentals, 5th ed.", Author: "Stewart", Subject: "science_engineering",
			Price: 450, Condition: models.ConditionGood,
			Description: ptr("Good shape, a few notes in the margins. Includes the solutions manual."),
			ImageURL:    ptr("https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=300&h=400&fit=crop"),
			SellerID:    seller.ID,
		},
		{
			Title: "Principles of Economics", Author: "Mankiw", Subject: "business_management",
			Price: 380, Condition: models.ConditionLikeNew,
			Description: ptr("Barely opened."),
			ImageURL:    ptr("https://images.unsplash.com/photo-1557821552-17105176677c?w=300&h=400&fit=crop"),
			SellerID:    seller.ID,
		},
		{
			Title: "The Elements of Style", Author: "William Strunk", Subject: "language",
			Price: 150, Condition: models.ConditionFair,
			Description: ptr("Some creases, all pages present."),
			ImageURL:    ptr("https://images.unsplash.com/photo-1456513080510-7bf3a84b82f8?w=300&h=400&fit=crop"),
			SellerID:    buyer.ID,
		},
		{
			Title: "Python Programming: An Introduction", Author: "John Zelle", Subject: "science_engineering",
			Price: 520, Condition: models.ConditionNew,
			Description: ptr("Still shrink-wrapped, bought the wrong edition."),
			ImageURL:    ptr("https://images.unsplash.com/photo-1517694712202-14dd9538aa97?w=300&h=400&fit=crop"),
			SellerID:    seller.ID,
		},
		{
			Title: "Psychology and Life", Author: "Philip Zimbardo", Subject: "humanities_social",
			Price: 280, Condition: models.ConditionGood,
			Description: ptr("Clean copy, fits the intro psychology course."),
			ImageURL:    ptr("https://images.unsplash.com/photo-1512820790803-83ca734da794?w=300&h=400&fit=crop"),
			SellerID:    buyer.ID,
		},
		{
			Title: "Introduction to Law", Author: "Cheng Yu-po", Subject: "law_politics",
			Price: 350, Condition: models.ConditionLikeNew,
			Description: ptr("25th revised edition, used for one semester."),
			SellerID:    seller.ID,
		},
	}
	for _, in := range listings {
		in.Status = models.BookAvailable
		if _, err := s.CreateBook(ctx, in); err != nil {
			return fmt.Errorf("seed book %q: %w", in.Title, err)
		}
	}

	sales := []struct {
		book    models.NewBook
		buyer   string
		message string
		rating  int
		comment string
	}{
		{
			book: models.NewBook{
				Title: "Introduction to Linear Algebra", Author: "Gilbert Strang", Subject: "science_engineering",
				Price: 400, Condition: models.ConditionGood, Description: ptr("The MIT classic. Sold."),
				ImageURL: ptr("https://images.unsplash.com/photo-1635070041078-e363dbe005cb?w=300&h=400&fit=crop"),
				SellerID: seller.ID,
			},
			buyer: buyer.ID, message: "Great condition, thanks!",
			rating: 5, comment: "Friendly seller, book exactly as described.",
		},
		{
			book: models.NewBook{
				Title: "Accounting Principles", Author: "Warren", Subject: "business_management",
				Price: 320, Condition: models.ConditionLikeNew, Description: ptr("Required for business school. Sold."),
				ImageURL: ptr("https://images.unsplash.com/photo-1554224155-6726b3ff858f?w=300&h=400&fit=crop"),
				SellerID: buyer.ID,
			},
			buyer: seller.ID, message: "Smooth deal.",
			rating: 4, comment: "Decent condition, shipped quickly.",
		},
		{
			book: models.NewBook{
				Title: "Organic Chemistry", Author: "Clayden", Subject: "science_engineering",
				Price: 550, Condition: models.ConditionFair, Description: ptr("Chemistry department staple. Sold."),
				ImageURL: ptr("https://images.unsplash.com/photo-1532187863486-abf9dbad1b69?w=300&h=400&fit=crop"),
				SellerID: seller.ID,
			},
			buyer: buyer.ID, message: "Fast shipping.",
			rating: 5, comment: "Excellent seller, highly recommended!",
		},
	}
	for _, sale := range sales {
		sale.book.Status = models.BookSold
		book, err := s.CreateBook(ctx, sale.book)
		if err != nil {
			return fmt.Errorf("seed sold book %q: %w", sale.book.Title, err)
		}
		order, err := s.CreateOrder(ctx, models.NewOrder{
			BookID:   book.ID,
			BuyerID:  sale.buyer,
			SellerID: book.SellerID,
			Status:   models.OrderCompleted,
			Message:  ptr(sale.message),
		})
		if err != nil {
			return fmt.Errorf("seed order for %q: %w", book.Title, err)
		}
		if _, err := s.CreateReview(ctx, models.NewReview{
			SellerID: order.SellerID,
			BuyerID:  order.BuyerID,
			OrderID:  order.ID,
			Rating:   sale.rating,
			Comment:  ptr(sale.comment),
		}); err != nil {
			return fmt.Errorf("seed review for %q: %w", book.Title, err)
		}
	}
	return nil
}
