package handlers

import (
	"context"

	"textbook_market/pkg/models"
)

// Referenced records may be gone (a deleted book behind an old order), so
// every lookup below yields nil instead of failing, which renders as null.

type userRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type bookSummary struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Author   string  `json:"author"`
	Price    int     `json:"price"`
	ImageURL *string `json:"imageUrl"`
	Subject  string  `json:"subject"`
}

type bookWithSeller struct {
	models.Book
	Seller *models.User `json:"seller"`
}

type transactionView struct {
	models.Order
	Book   *bookSummary `json:"book"`
	Buyer  *userRef     `json:"buyer"`
	Seller *userRef     `json:"seller"`
}

type reviewView struct {
	models.Review
	Buyer  *userRef `json:"buyer"`
	Seller *userRef `json:"seller"`
}

type sellerReviewView struct {
	models.Review
	Buyer *userRef `json:"buyer"`
}

func (h *Handler) userRef(ctx context.Context, id string) (*userRef, error) {
	user, err := h.store.GetUser(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}
	return &userRef{ID: user.ID, Username: user.Username}, nil
}

func (h *Handler) withSeller(ctx context.Context, book models.Book) (bookWithSeller, error) {
	seller, err := h.store.GetUser(ctx, book.SellerID)
	if err != nil {
		return bookWithSeller{}, err
	}
	return bookWithSeller{Book: book, Seller: seller}, nil
}

func (h *Handler) bookSummary(ctx context.Context, id string) (*bookSummary, error) {
	book, err := h.store.GetBook(ctx, id)
	if err != nil || book == nil {
		return nil, err
	}
	return &bookSummary{
		ID:       book.ID,
		Title:    book.Title,
		Author:   book.Author,
		Price:    book.Price,
		ImageURL: book.ImageURL,
		Subject:  book.Subject,
	}, nil
}
