package handlers

import (
	"errors"
	"net/http"

	"deepshop/circuitbreaker"
	"deepshop/middleware"
	"deepshop/models"
	"deepshop/repository"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type AdminHandler struct {
	orders    repository.OrderStore
	users     repository.UserStore
	config    repository.ConfigStore
	fraud     FraudChecker
	jwtSecret []byte
	logger    *zap.Logger
}

func NewAdminHandler(
	orders repository.OrderStore,
	users repository.UserStore,
	config repository.ConfigStore,
	fraud FraudChecker,
	jwtSecret []byte,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		orders:    orders,
		users:     users,
		config:    config,
		fraud:     fraud,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

func (h *AdminHandler) ListOrders(c *gin.Context) {
	filter := repository.OrderFilter{
		Status: models.OrderStatus(c.Query("status")),
		UserID: c.Query("user"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	orders, err := h.orders.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// UpdateOrderStatus writes the status field directly. Membership in the
// status set is the only validation: any status may replace any other,
// and concurrent writers race last-write-wins.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	ctx, span := otel.Tracer("deep-shop").Start(c.Request.Context(), "UpdateOrderStatus")
	defer span.End()

	id := c.Param("id")

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	span.SetAttributes(
		attribute.String("order.id", id),
		attribute.String("order.status", string(req.Status)),
	)

	if err := h.orders.UpdateStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		span.RecordError(err)
		h.logger.Error("Failed to update order status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.logger.Info("Order status updated",
		zap.String("order_id", id),
		zap.String("status", string(req.Status)),
		zap.String("admin_uid", middleware.CurrentUser(c).UID),
	)
	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) ModerateUser(c *gin.Context) {
	uid := c.Param("uid")

	var req models.ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.Moderate(c.Request.Context(), uid, req); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("Failed to moderate user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.logger.Info("User moderated",
		zap.String("user_uid", uid),
		zap.String("admin_uid", middleware.CurrentUser(c).UID),
	)
	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

func (h *AdminHandler) GetSiteConfig(c *gin.Context) {
	cfg, err := h.config.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load site config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *AdminHandler) UpdateSiteConfig(c *gin.Context) {
	var cfg models.SiteConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.config.Update(c.Request.Context(), &cfg); err != nil {
		h.logger.Error("Failed to update site config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.logger.Info("Site config updated", zap.String("admin_uid", middleware.CurrentUser(c).UID))
	c.JSON(http.StatusOK, cfg)
}

// FraudCheck proxies the external phone-history lookup for the admin
// order view.
func (h *AdminHandler) FraudCheck(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone is required"})
		return
	}

	report, err := h.fraud.Check(c.Request.Context(), phone)
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Fraud check temporarily unavailable"})
			return
		}
		h.logger.Error("Fraud check failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "Fraud check failed"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// Shadow issues a token for the target account so support can see the
// store as that user. The token records the admin who requested it and
// every request made with it is logged.
func (h *AdminHandler) Shadow(c *gin.Context) {
	uid := c.Param("uid")
	admin := middleware.CurrentUser(c)

	target, err := h.users.FindByUID(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("Failed to load user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	token, err := middleware.IssueToken(h.jwtSecret, target, admin.UID)
	if err != nil {
		h.logger.Error("Failed to issue shadow token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.logger.Info("Shadow session issued",
		zap.String("admin_uid", admin.UID),
		zap.String("user_uid", uid),
	)
	c.JSON(http.StatusOK, gin.H{"token": token, "user": target})
}
