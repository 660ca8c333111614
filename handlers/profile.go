package handlers

import (
	"net/http"

	"deepshop/middleware"
	"deepshop/models"
	"deepshop/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	users  repository.UserStore
	orders repository.OrderStore
	logger *zap.Logger
}

func NewProfileHandler(users repository.UserStore, orders repository.OrderStore, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{users: users, orders: orders, logger: logger}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.UpdateProfile(c.Request.Context(), user.UID, req); err != nil {
		h.logger.Error("Failed to update profile", zap.String("user_uid", user.UID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated"})
}

// MyOrders is the buyer's order history, newest first.
func (h *ProfileHandler) MyOrders(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orders, err := h.orders.List(c.Request.Context(), repository.OrderFilter{UserID: user.UID})
	if err != nil {
		h.logger.Error("Failed to list orders", zap.String("user_uid", user.UID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, orders)
}
