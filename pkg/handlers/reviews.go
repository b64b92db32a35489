package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"textbook_market/pkg/models"
)

type createReviewRequest struct {
	SellerID string  `json:"sellerId" binding:"required"`
	BuyerID  string  `json:"buyerId" binding:"required"`
	OrderID  string  `json:"orderId" binding:"required"`
	Rating   int     `json:"rating" binding:"required,min=1,max=5"`
	Comment  *string `json:"comment"`
}

func (h *Handler) listReviews(c *gin.Context) {
	ctx := c.Request.Context()
	reviews, err := h.store.GetAllReviews(ctx)
	if err != nil {
		h.internalError(c, "list reviews", err)
		return
	}

	items := make([]reviewView, len(reviews))
	for i, r := range reviews {
		buyer, err := h.userRef(ctx, r.BuyerID)
		if err != nil {
			h.internalError(c, "get buyer", err)
			return
		}
		seller, err := h.userRef(ctx, r.SellerID)
		if err != nil {
			h.internalError(c, "get seller", err)
			return
		}
		items[i] = reviewView{Review: r, Buyer: buyer, Seller: seller}
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) listSellerReviews(c *gin.Context) {
	ctx := c.Request.Context()
	sellerID := c.Param("sellerId")

	reviews, err := h.store.GetReviewsBySeller(ctx, sellerID)
	if err != nil {
		h.internalError(c, "list seller reviews", err)
		return
	}
	rating, err := h.store.GetSellerRating(ctx, sellerID)
	if err != nil {
		h.internalError(c, "get seller rating", err)
		return
	}

	items := make([]sellerReviewView, len(reviews))
	for i, r := range reviews {
		buyer, err := h.userRef(ctx, r.BuyerID)
		if err != nil {
			h.internalError(c, "get buyer", err)
			return
		}
		items[i] = sellerReviewView{Review: r, Buyer: buyer}
	}
	c.JSON(http.StatusOK, gin.H{
		"reviews": items,
		"rating":  rating,
	})
}

// createReview allows one review per order. The check and the insert happen
// in a single store call so two concurrent submissions cannot both succeed.
func (h *Handler) createReview(c *gin.Context) {
	var req createReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	review, created, err := h.store.CreateReviewForOrder(c.Request.Context(), models.NewReview{
		SellerID: req.SellerID,
		BuyerID:  req.BuyerID,
		OrderID:  req.OrderID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		h.internalError(c, "create review", err)
		return
	}
	if !created {
		c.JSON(http.StatusConflict, gin.H{"message": "this order has already been reviewed"})
		return
	}
	h.log.Info("review posted", "review_id", review.ID, "order_id", review.OrderID, "rating", review.Rating)
	c.JSON(http.StatusCreated, review)
}
