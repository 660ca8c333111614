package handlers

import (
	"net/http"

	"deepshop/middleware"
	"deepshop/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CartHandler struct {
	carts  CartStore
	logger *zap.Logger
}

func NewCartHandler(carts CartStore, logger *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

func (h *CartHandler) GetCart(c *gin.Context) {
	user := middleware.CurrentUser(c)

	items, err := h.carts.Get(c.Request.Context(), user.UID)
	if err != nil {
		h.logger.Error("Failed to read cart", zap.String("user_uid", user.UID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// PutCart replaces the whole cart. Quantities must be positive; an empty
// list clears the cart.
func (h *CartHandler) PutCart(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var items []models.CartItem
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, item := range items {
		if item.ProductID == "" || item.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Each item needs a product and a positive quantity"})
			return
		}
	}

	if err := h.carts.Put(c.Request.Context(), user.UID, items); err != nil {
		h.logger.Error("Failed to write cart", zap.String("user_uid", user.UID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, items)
}
