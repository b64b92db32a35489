package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"textbook_market/pkg/assistant"
	"textbook_market/pkg/circuitbreaker"
	"textbook_market/pkg/logger"
	"textbook_market/pkg/ratelimit"
	"textbook_market/pkg/storage"
)

// ownerHeader optionally identifies the caller. When present, book edits and
// deletes are refused unless it matches the listing's seller.
const ownerHeader = "X-User-Id"

type Handler struct {
	store     storage.Storage
	assistant *assistant.Assistant
	log       *slog.Logger
}

func New(store storage.Storage, a *assistant.Assistant, log *slog.Logger) *Handler {
	return &Handler{store: store, assistant: a, log: log}
}

type routerOptions struct {
	chatLimiter ratelimit.Limiter
	breaker     *circuitbreaker.Breaker
}

type RouterOption func(*routerOptions)

// WithChatLimiter throttles the chat endpoint per client.
func WithChatLimiter(l ratelimit.Limiter) RouterOption {
	return func(o *routerOptions) { o.chatLimiter = l }
}

// WithBreaker sheds /api traffic while the store is failing.
func WithBreaker(b *circuitbreaker.Breaker) RouterOption {
	return func(o *routerOptions) { o.breaker = b }
}

// Router wires every route.
func Router(h *Handler, opts ...RouterOption) *gin.Engine {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery(), logger.Middleware(h.log))

	api := r.Group("/api")
	if o.breaker != nil {
		api.Use(circuitbreaker.Middleware(o.breaker))
	}
	{
		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)

		api.GET("/books", h.listBooks)
		api.GET("/books/suggest", h.suggestBooks)
		api.GET("/books/seller/:sellerId", h.listSellerBooks)
		api.GET("/books/:id", h.getBook)
		api.POST("/books", h.createBook)
		api.PATCH("/books/:id", h.updateBook)
		api.DELETE("/books/:id", h.deleteBook)

		api.GET("/orders", h.listOrders)
		api.POST("/orders", h.createOrder)
		api.PATCH("/orders/:id", h.updateOrder)

		chat := []gin.HandlerFunc{h.chat}
		if o.chatLimiter != nil {
			chat = append([]gin.HandlerFunc{ratelimit.Middleware(o.chatLimiter)}, chat...)
		}
		api.POST("/ai/chat", chat...)

		api.GET("/transactions", h.listTransactions)

		api.GET("/reviews", h.listReviews)
		api.GET("/reviews/seller/:sellerId", h.listSellerReviews)
		api.POST("/reviews", h.createReview)
	}
	r.GET("/manage/health", h.healthCheck)

	return r
}

func (h *Handler) healthCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Store ping failed",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handler) internalError(c *gin.Context, op string, err error) {
	h.log.Error("store operation failed", "op", op, "error", err)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input data", "errors": err.Error()})
}

func notFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"message": what + " not found"})
}
