package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"textbook_market/pkg/models"
)

type createOrderRequest struct {
	BookID   string  `json:"bookId" binding:"required"`
	BuyerID  string  `json:"buyerId" binding:"required"`
	SellerID string  `json:"sellerId" binding:"required"`
	Status   string  `json:"status"`
	Message  *string `json:"message"`
}

type updateOrderRequest struct {
	Status  *string `json:"status" binding:"omitempty,min=1"`
	Message *string `json:"message"`
}

// listOrders returns every order, or narrows by buyerId, sellerId or
// status=completed. Only the first of those parameters present is used.
func (h *Handler) listOrders(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		orders []models.Order
		err    error
	)
	switch {
	case c.Query("buyerId") != "":
		orders, err = h.store.GetOrdersByBuyer(ctx, c.Query("buyerId"))
	case c.Query("sellerId") != "":
		orders, err = h.store.GetOrdersBySeller(ctx, c.Query("sellerId"))
	case c.Query("status") == models.OrderCompleted:
		orders, err = h.store.GetCompletedOrders(ctx)
	case c.Query("status") != "":
		c.JSON(http.StatusBadRequest, gin.H{"message": "only status=completed can be filtered on"})
		return
	default:
		orders, err = h.store.GetAllOrders(ctx)
	}
	if err != nil {
		h.internalError(c, "list orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.store.CreateOrder(c.Request.Context(), models.NewOrder{
		BookID:   req.BookID,
		BuyerID:  req.BuyerID,
		SellerID: req.SellerID,
		Status:   req.Status,
		Message:  req.Message,
	})
	if err != nil {
		h.internalError(c, "create order", err)
		return
	}
	h.log.Info("order placed", "order_id", order.ID, "book_id", order.BookID, "buyer_id", order.BuyerID)
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) updateOrder(c *gin.Context) {
	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.store.UpdateOrder(c.Request.Context(), c.Param("id"), models.OrderPatch{
		Status:  req.Status,
		Message: req.Message,
	})
	if err != nil {
		h.internalError(c, "update order", err)
		return
	}
	if order == nil {
		notFound(c, "Order")
		return
	}
	c.JSON(http.StatusOK, order)
}
