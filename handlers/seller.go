package handlers

import (
	"errors"
	"net/http"
	"time"

	"deepshop/middleware"
	"deepshop/models"
	"deepshop/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type SellerHandler struct {
	requests repository.SellerRequestStore
	users    repository.UserStore
	orders   repository.OrderStore
	logger   *zap.Logger
}

func NewSellerHandler(
	requests repository.SellerRequestStore,
	users repository.UserStore,
	orders repository.OrderStore,
	logger *zap.Logger,
) *SellerHandler {
	return &SellerHandler{
		requests: requests,
		users:    users,
		orders:   orders,
		logger:   logger,
	}
}

// Apply files a seller onboarding request for the current user.
func (h *SellerHandler) Apply(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user.IsSellerApproved {
		c.JSON(http.StatusConflict, gin.H{"error": "Already an approved seller"})
		return
	}

	request := &models.SellerRequest{
		UserID:    user.UID,
		UserName:  user.Name,
		UserPhone: user.Phone,
		Status:    models.SellerRequestPending,
		Timestamp: time.Now().UTC(),
	}

	id, err := h.requests.Insert(c.Request.Context(), request)
	if err != nil {
		h.logger.Error("Failed to create seller request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.logger.Info("Seller request filed", zap.String("request_id", id), zap.String("user_uid", user.UID))
	c.JSON(http.StatusCreated, request)
}

func (h *SellerHandler) ListRequests(c *gin.Context) {
	requests, err := h.requests.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list seller requests", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, requests)
}

type reviewRequestBody struct {
	Approve bool `json:"approve"`
}

// Review approves or rejects a seller request and flips the user's
// isSellerApproved flag on approval.
func (h *SellerHandler) Review(c *gin.Context) {
	var body reviewRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status := models.SellerRequestRejected
	if body.Approve {
		status = models.SellerRequestApproved
	}

	ctx := c.Request.Context()
	request, err := h.requests.SetStatus(ctx, c.Param("id"), status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Request not found"})
			return
		}
		h.logger.Error("Failed to update seller request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if body.Approve {
		approved := true
		if err := h.users.Moderate(ctx, request.UserID, models.ModerationRequest{IsSellerApproved: &approved}); err != nil {
			h.logger.Error("Failed to approve seller", zap.String("user_uid", request.UserID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	h.logger.Info("Seller request reviewed",
		zap.String("request_id", c.Param("id")),
		zap.String("status", string(status)),
	)
	c.JSON(http.StatusOK, request)
}

// Orders partitions the order book down to the seller's own sales.
func (h *SellerHandler) Orders(c *gin.Context) {
	user := middleware.CurrentUser(c)

	orders, err := h.orders.List(c.Request.Context(), repository.OrderFilter{SellerID: user.UID})
	if err != nil {
		h.logger.Error("Failed to list seller orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus lets a seller move their own orders through the
// status set. Same rule as the admin path: set membership only.
func (h *SellerHandler) UpdateOrderStatus(c *gin.Context) {
	id := c.Param("id")
	user := middleware.CurrentUser(c)

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	ctx := c.Request.Context()
	order, err := h.orders.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		h.logger.Error("Failed to get order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if order.SellerID != user.UID && !user.IsAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your order"})
		return
	}

	if err := h.orders.UpdateStatus(ctx, id, req.Status); err != nil {
		h.logger.Error("Failed to update order status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.logger.Info("Order status updated by seller",
		zap.String("order_id", id),
		zap.String("seller_uid", user.UID),
		zap.String("status", string(req.Status)),
	)
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}
