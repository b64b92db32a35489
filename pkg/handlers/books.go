package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"textbook_market/pkg/models"
)

type bookQuery struct {
	Q         string            `form:"q"`
	Subject   string            `form:"subject" binding:"omitempty,book_subject"`
	Condition string            `form:"condition" binding:"omitempty,book_condition"`
	Status    models.BookStatus `form:"status" binding:"omitempty,book_status"`
	MinPrice  int               `form:"minPrice" binding:"min=0"`
	MaxPrice  int               `form:"maxPrice" binding:"min=0"`
}

func (q bookQuery) filter() (models.BookFilter, bool) {
	f := models.BookFilter{
		Query:     q.Q,
		Subject:   q.Subject,
		Condition: q.Condition,
		Status:    q.Status,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
	}
	return f, f != models.BookFilter{}
}

type createBookRequest struct {
	Title       string            `json:"title" binding:"required"`
	Author      string            `json:"author" binding:"required"`
	Subject     string            `json:"subject" binding:"required,book_subject"`
	Price       int               `json:"price" binding:"required,min=1"`
	Condition   string            `json:"condition" binding:"required,book_condition"`
	Description *string           `json:"description"`
	ImageURL    *string           `json:"imageUrl"`
	SellerID    string            `json:"sellerId" binding:"required"`
	Status      models.BookStatus `json:"status" binding:"omitempty,book_status"`
}

type updateBookRequest struct {
	Title       *string            `json:"title" binding:"omitempty,min=1"`
	Author      *string            `json:"author" binding:"omitempty,min=1"`
	Subject     *string            `json:"subject" binding:"omitempty,book_subject"`
	Price       *int               `json:"price" binding:"omitempty,min=1"`
	Condition   *string            `json:"condition" binding:"omitempty,book_condition"`
	Description *string            `json:"description"`
	ImageURL    *string            `json:"imageUrl"`
	Status      *models.BookStatus `json:"status" binding:"omitempty,book_status"`
}

// patch converts the request. raw is the same body decoded into keys so that
// an explicit null for description or imageUrl clears the field, while a
// missing key leaves it alone.
func (r updateBookRequest) patch(raw map[string]json.RawMessage) models.BookPatch {
	return models.BookPatch{
		Title:       r.Title,
		Author:      r.Author,
		Subject:     r.Subject,
		Price:       r.Price,
		Condition:   r.Condition,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Status:      r.Status,

		ClearDescription: isNull(raw, "description"),
		ClearImageURL:    isNull(raw, "imageUrl"),
	}
}

func (h *Handler) listBooks(c *gin.Context) {
	var q bookQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	var (
		books []models.Book
		err   error
	)
	if filter, ok := q.filter(); ok {
		books, err = h.store.SearchBooks(ctx, filter)
	} else {
		books, err = h.store.GetAllBooks(ctx)
	}
	if err != nil {
		h.internalError(c, "list books", err)
		return
	}

	items := make([]bookWithSeller, len(books))
	for i, book := range books {
		items[i], err = h.withSeller(ctx, book)
		if err != nil {
			h.internalError(c, "get seller", err)
			return
		}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) suggestBooks(c *gin.Context) {
	books, err := h.store.SearchBooks(c.Request.Context(), models.BookFilter{Status: models.BookAvailable})
	if err != nil {
		h.internalError(c, "list available books", err)
		return
	}
	titles := make([]string, len(books))
	for i, b := range books {
		titles[i] = b.Title
	}
	c.JSON(http.StatusOK, gin.H{"suggestion": h.assistant.Suggest(c.Query("q"), titles)})
}

func (h *Handler) listSellerBooks(c *gin.Context) {
	books, err := h.store.GetBooksBySeller(c.Request.Context(), c.Param("sellerId"))
	if err != nil {
		h.internalError(c, "list seller books", err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *Handler) getBook(c *gin.Context) {
	ctx := c.Request.Context()
	book, err := h.store.GetBook(ctx, c.Param("id"))
	if err != nil {
		h.internalError(c, "get book", err)
		return
	}
	if book == nil {
		notFound(c, "Book")
		return
	}
	item, err := h.withSeller(ctx, *book)
	if err != nil {
		h.internalError(c, "get seller", err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) createBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	book, err := h.store.CreateBook(c.Request.Context(), models.NewBook{
		Title:       req.Title,
		Author:      req.Author,
		Subject:     req.Subject,
		Price:       req.Price,
		Condition:   req.Condition,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		SellerID:    req.SellerID,
		Status:      req.Status,
	})
	if err != nil {
		h.internalError(c, "create book", err)
		return
	}
	h.log.Info("book listed", "book_id", book.ID, "seller_id", book.SellerID)
	c.JSON(http.StatusCreated, book)
}

func isNull(raw map[string]json.RawMessage, key string) bool {
	v, ok := raw[key]
	return ok && string(v) == "null"
}

func (h *Handler) updateBook(c *gin.Context) {
	var (
		req updateBookRequest
		raw map[string]json.RawMessage
	)
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		badRequest(c, err)
		return
	}
	if err := c.ShouldBindBodyWith(&raw, binding.JSON); err != nil {
		badRequest(c, err)
		return
	}
	book, ok := h.ownedBook(c)
	if !ok {
		return
	}
	updated, err := h.store.UpdateBook(c.Request.Context(), book.ID, req.patch(raw))
	if err != nil {
		h.internalError(c, "update book", err)
		return
	}
	if updated == nil {
		notFound(c, "Book")
		return
	}
	if models.IsConditionWorse(book.Condition, updated.Condition) {
		h.log.Info("listing condition downgraded", "book_id", book.ID,
			"from", book.Condition, "to", updated.Condition)
	}
	c.JSON(http.StatusOK, updated)
}

func (h *Handler) deleteBook(c *gin.Context) {
	book, ok := h.ownedBook(c)
	if !ok {
		return
	}
	deleted, err := h.store.DeleteBook(c.Request.Context(), book.ID)
	if err != nil {
		h.internalError(c, "delete book", err)
		return
	}
	if !deleted {
		notFound(c, "Book")
		return
	}
	h.log.Info("book deleted", "book_id", book.ID)
	c.Status(http.StatusNoContent)
}

// ownedBook loads the book named in the path and checks the optional owner
// header against its seller. It writes the error response itself.
func (h *Handler) ownedBook(c *gin.Context) (*models.Book, bool) {
	book, err := h.store.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.internalError(c, "get book", err)
		return nil, false
	}
	if book == nil {
		notFound(c, "Book")
		return nil, false
	}
	if caller := c.GetHeader(ownerHeader); caller != "" && caller != book.SellerID {
		c.JSON(http.StatusForbidden, gin.H{"message": "only the seller can change this listing"})
		return nil, false
	}
	return book, true
}
