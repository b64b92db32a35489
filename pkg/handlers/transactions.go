package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listTransactions(c *gin.Context) {
	ctx := c.Request.Context()

	orders, err := h.store.GetCompletedOrders(ctx)
	if err != nil {
		h.internalError(c, "list completed orders", err)
		return
	}
	stats, err := h.store.GetTransactionStats(ctx)
	if err != nil {
		h.internalError(c, "transaction stats", err)
		return
	}

	items := make([]transactionView, len(orders))
	for i, o := range orders {
		view := transactionView{Order: o}
		if view.Book, err = h.bookSummary(ctx, o.BookID); err != nil {
			h.internalError(c, "get book", err)
			return
		}
		if view.Buyer, err = h.userRef(ctx, o.BuyerID); err != nil {
			h.internalError(c, "get buyer", err)
			return
		}
		if view.Seller, err = h.userRef(ctx, o.SellerID); err != nil {
			h.internalError(c, "get seller", err)
			return
		}
		items[i] = view
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": items,
		"stats":        stats,
	})
}
