package handlers

import (
	"errors"
	"net/http"

	"deepshop/middleware"
	"deepshop/repository"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type OrderHandler struct {
	orders repository.OrderStore
	logger *zap.Logger
}

func NewOrderHandler(orders repository.OrderStore, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// GetOrder serves the order-tracking view. Buyers see their own orders,
// sellers the orders routed to them, admins everything.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	ctx, span := otel.Tracer("deep-shop").Start(c.Request.Context(), "GetOrder")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("order.id", id))

	order, err := h.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		span.RecordError(err)
		h.logger.Error("Failed to get order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	user := middleware.CurrentUser(c)
	if !user.IsAdmin && order.UserInfo.UserID != user.UID && order.SellerID != user.UID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	c.JSON(http.StatusOK, order)
}
