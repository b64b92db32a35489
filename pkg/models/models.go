package models

import (
	"time"
)

type BookStatus string

const (
	BookAvailable BookStatus = "available"
	BookReserved  BookStatus = "reserved"
	BookSold      BookStatus = "sold"
)

const (
	OrderPending   = "pending"
	OrderCompleted = "completed"
)

type User struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Username  string    `gorm:"not null;index" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Email     string    `gorm:"not null" json:"email"`
	Phone     *string   `json:"phone"`
	School    *string   `json:"school"`
	// CreatedAt only orders username lookups; it is not part of the API.
	CreatedAt time.Time `json:"-"`
}

type Book struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Author      string     `gorm:"not null" json:"author"`
	Subject     string     `gorm:"not null" json:"subject"`
	Price       int        `gorm:"not null" json:"price"`
	Condition   string     `gorm:"size:20;not null" json:"condition"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"imageUrl"`
	SellerID    string     `gorm:"size:36;not null;index" json:"sellerId"`
	Status      BookStatus `gorm:"size:20;not null;default:'available'" json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type Order struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	BookID    string    `gorm:"size:36;not null" json:"bookId"`
	BuyerID   string    `gorm:"size:36;not null;index" json:"buyerId"`
	SellerID  string    `gorm:"size:36;not null;index" json:"sellerId"`
	Status    string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	Message   *string   `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Review.OrderID is deliberately not a unique index: the plain create path
// accepts duplicates and only CreateReviewForOrder enforces one per order.
type Review struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	SellerID  string    `gorm:"size:36;not null;index" json:"sellerId"`
	BuyerID   string    `gorm:"size:36;not null" json:"buyerId"`
	OrderID   string    `gorm:"size:36;not null;index" json:"orderId"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser, NewBook, NewOrder and NewReview carry the caller-supplied fields of
// a record; the store fills in the id and timestamp.
type NewUser struct {
	Username string
	Password string
	Email    string
	Phone    *string
	School   *string
}

type NewBook struct {
	Title       string
	Author      string
	Subject     string
	Price       int
	Condition   string
	Description *string
	ImageURL    *string
	SellerID    string
	Status      BookStatus
}

type NewOrder struct {
	BookID   string
	BuyerID  string
	SellerID string
	Status   string
	Message  *string
}

type NewReview struct {
	SellerID string
	BuyerID  string
	OrderID  string
	Rating   int
	Comment  *string
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// Clone returns a copy of u that shares no memory with it.
func (u User) Clone() User {
	u.Phone = cloneString(u.Phone)
	u.School = cloneString(u.School)
	return u
}

func (b Book) Clone() Book {
	b.Description = cloneString(b.Description)
	b.ImageURL = cloneString(b.ImageURL)
	return b
}

func (o Order) Clone() Order {
	o.Message = cloneString(o.Message)
	return o
}

func (r Review) Clone() Review {
	r.Comment = cloneString(r.Comment)
	return r
}

// BookPatch lists the fields a seller may change on a listing. Nil fields are
// left untouched. ClearDescription and ClearImageURL remove the optional
// fields and win over a value given for the same field.
type BookPatch struct {
	Title       *string
	Author      *string
	Subject     *string
	Price       *int
	Condition   *string
	Description *string
	ImageURL    *string
	Status      *BookStatus

	ClearDescription bool
	ClearImageURL    bool
}

func (p BookPatch) Apply(b *Book) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Subject != nil {
		b.Subject = *p.Subject
	}
	if p.Price != nil {
		b.Price = *p.Price
	}
	if p.Condition != nil {
		b.Condition = *p.Condition
	}
	if p.Description != nil {
		b.Description = cloneString(p.Description)
	}
	if p.ImageURL != nil {
		b.ImageURL = cloneString(p.ImageURL)
	}
	if p.Status != nil {
		b.Status = *p.Status
	}
	if p.ClearDescription {
		b.Description = nil
	}
	if p.ClearImageURL {
		b.ImageURL = nil
	}
}

type OrderPatch struct {
	Status  *string
	Message *string
}

func (p OrderPatch) Apply(o *Order) {
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.Message != nil {
		o.Message = cloneString(p.Message)
	}
}

// BookFilter narrows a book listing. Zero values mean "any".
type BookFilter struct {
	Query     string
	Subject   string
	Condition string
	Status    BookStatus
	MinPrice  int
	MaxPrice  int
}

type SellerRating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type TransactionStats struct {
	TotalBooks  int     `json:"totalBooks"`
	TotalValue  int     `json:"totalValue"`
	CarbonSaved float64 `json:"carbonSaved"`
}
