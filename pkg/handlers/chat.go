package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"textbook_market/pkg/assistant"
)

type chatRequest struct {
	BookInfo    *assistant.BookInfo   `json:"bookInfo" binding:"required"`
	SellerInfo  *assistant.SellerInfo `json:"sellerInfo" binding:"required"`
	UserMessage string                `json:"userMessage" binding:"required"`
}

func (h *Handler) chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required fields"})
		return
	}
	reply := h.assistant.Reply(*req.BookInfo, *req.SellerInfo, req.UserMessage)
	h.log.Debug("chat reply", "book", req.BookInfo.Title, "topic", assistant.Topic(req.UserMessage))
	c.JSON(http.StatusOK, gin.H{"response": reply})
}
