package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"textbook_market/pkg/models"
)

type registerRequest struct {
	Username string  `json:"username" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Phone    *string `json:"phone"`
	School   *string `json:"school"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	existing, err := h.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		h.internalError(c, "get user by username", err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"message": "username already taken"})
		return
	}

	user, err := h.store.CreateUser(ctx, models.NewUser{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Phone:    req.Phone,
		School:   req.School,
	})
	if err != nil {
		h.internalError(c, "create user", err)
		return
	}
	h.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	c.JSON(http.StatusOK, user)
}

// login compares the stored password verbatim; there is no session or token.
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}

	user, err := h.store.GetUserByUsername(c.Request.Context(), req.Username)
	if err != nil {
		h.internalError(c, "get user by username", err)
		return
	}
	if user == nil || user.Password != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid username or password"})
		return
	}
	c.JSON(http.StatusOK, user)
}
