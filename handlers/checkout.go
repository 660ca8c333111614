package handlers

import (
	"net/http"
	"time"

	"deepshop/cache"
	"deepshop/gateway"
	"deepshop/middleware"
	"deepshop/models"
	"deepshop/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ResolveModes maps the SiteConfig snapshot to the verification modes
// checkout offers. advance and nid follow their flags, none follows
// codEnabled, and when nothing is enabled none is forced so there is
// always a valid default. The default is the first enabled mode in
// priority order advance, nid, none.
func ResolveModes(cfg *models.SiteConfig) (enabled []models.VerificationType, def models.VerificationType) {
	if cfg.AdvanceRequired {
		enabled = append(enabled, models.VerificationAdvance)
	}
	if cfg.NIDRequired {
		enabled = append(enabled, models.VerificationNID)
	}
	if cfg.CODEnabled || len(enabled) == 0 {
		enabled = append(enabled, models.VerificationNone)
	}
	// enabled is never empty here: the branch above appends none
	// whenever no flag put anything in.
	return enabled, enabled[0]
}

func modeEnabled(cfg *models.SiteConfig, mode models.VerificationType) bool {
	enabled, _ := ResolveModes(cfg)
	for _, m := range enabled {
		if m == mode {
			return true
		}
	}
	return false
}

type CheckoutHandler struct {
	orders  repository.OrderStore
	config  repository.ConfigStore
	carts   CartStore
	pending PendingStore
	gw      *gateway.Gateway
	events  Publisher
	logger  *zap.Logger
}

func NewCheckoutHandler(
	orders repository.OrderStore,
	config repository.ConfigStore,
	carts CartStore,
	pending PendingStore,
	gw *gateway.Gateway,
	events Publisher,
	logger *zap.Logger,
) *CheckoutHandler {
	return &CheckoutHandler{
		orders:  orders,
		config:  config,
		carts:   carts,
		pending: pending,
		gw:      gw,
		events:  events,
		logger:  logger,
	}
}

// GetModes reports the verification modes the current SiteConfig allows,
// plus the fixed advance amount for the advance mode.
func (h *CheckoutHandler) GetModes(c *gin.Context) {
	cfg, err := h.config.Get(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load site config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	enabled, def := ResolveModes(cfg)
	c.JSON(http.StatusOK, gin.H{
		"modes":         enabled,
		"default":       def,
		"advanceAmount": h.gw.AdvanceAmount(),
	})
}

type addressRequest struct {
	FullName    string `json:"fullName" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	FullAddress string `json:"fullAddress" binding:"required"`
}

func (r addressRequest) address() models.Address {
	return models.Address{FullName: r.FullName, FullAddress: r.FullAddress, Phone: r.Phone}
}

// InitiateAdvance validates the shipping form, persists the pending
// checkout across the redirect boundary and responds with the gateway
// redirect URL. Missing fields block the redirect with no side effect.
func (h *CheckoutHandler) InitiateAdvance(c *gin.Context) {
	ctx, span := otel.Tracer("deep-shop").Start(c.Request.Context(), "InitiateAdvance")
	defer span.End()

	user := middleware.CurrentUser(c)

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full name, phone and address are required"})
		return
	}

	cfg, err := h.config.Get(ctx)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to load site config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !modeEnabled(cfg, models.VerificationAdvance) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Advance payment is not available"})
		return
	}

	items, err := h.carts.Get(ctx, user.UID)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to read cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	pending := cache.PendingCheckout{
		UserID:         user.UID,
		Address:        req.address(),
		IdempotencyKey: uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
	}
	if err := h.pending.Put(ctx, pending); err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to store pending checkout", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	redirectURL, err := h.gw.RedirectURL()
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to build gateway URL", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	span.SetAttributes(attribute.String("user.uid", user.UID))
	c.JSON(http.StatusOK, gin.H{"redirectUrl": redirectURL})
}

// AdvanceCallback handles the gateway's return redirect. Without a
// success status no order is created. With one, the pending entry is
// consumed atomically, so revisiting the callback URL cannot create a
// second order.
func (h *CheckoutHandler) AdvanceCallback(c *gin.Context) {
	ctx, span := otel.Tracer("deep-shop").Start(c.Request.Context(), "AdvanceCallback")
	defer span.End()

	user := middleware.CurrentUser(c)

	result := gateway.ParseCallback(c.Request.URL.Query())
	if !result.Completed {
		middleware.RecordCheckoutCallback("incomplete")
		c.JSON(http.StatusOK, gin.H{"message": "Payment not completed, no order placed"})
		return
	}

	pending, err := h.pending.Consume(ctx, user.UID)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to consume pending checkout", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if pending == nil {
		middleware.RecordCheckoutCallback("replayed")
		c.JSON(http.StatusConflict, gin.H{"error": "No pending checkout for this payment"})
		return
	}

	span.SetAttributes(attribute.String("transaction.id", result.TransactionID))

	order, err := h.finalize(ctx, user, pending.Address, finalizeOptions{
		verification:  models.VerificationAdvance,
		advancePaid:   h.gw.AdvanceAmount(),
		paymentMethod: "bkash",
		transactionID: result.TransactionID,
	})
	if err != nil {
		span.RecordError(err)
		h.respondFinalizeError(c, err)
		return
	}

	middleware.RecordCheckoutCallback("completed")
	c.JSON(http.StatusCreated, order)
}

type nidCheckoutRequest struct {
	addressRequest
	ParentType  string `json:"parentType" binding:"required"`
	ParentName  string `json:"parentName" binding:"required"`
	ParentPhone string `json:"parentPhone" binding:"required"`
}

// CheckoutNID places an order with guardian identity binding instead of
// an advance payment. All guardian fields are required before any write.
func (h *CheckoutHandler) CheckoutNID(c *gin.Context) {
	ctx, span := otel.Tracer("deep-shop").Start(c.Request.Context(), "CheckoutNID")
	defer span.End()

	user := middleware.CurrentUser(c)

	var req nidCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Address and guardian details are required"})
		return
	}
	if req.ParentType != "Mother" && req.ParentType != "Father" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Guardian relation must be Mother or Father"})
		return
	}

	cfg, err := h.config.Get(ctx)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to load site config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !modeEnabled(cfg, models.VerificationNID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "NID verification is not available"})
		return
	}

	order, err := h.finalize(ctx, user, req.address(), finalizeOptions{
		verification:  models.VerificationNID,
		paymentMethod: "cod",
		parentInfo: &models.ParentInfo{
			ParentType:  req.ParentType,
			ParentName:  req.ParentName,
			ParentPhone: req.ParentPhone,
		},
	})
	if err != nil {
		span.RecordError(err)
		h.respondFinalizeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// CheckoutCOD places a plain cash-on-delivery order with no extra
// verification.
func (h *CheckoutHandler) CheckoutCOD(c *gin.Context) {
	ctx, span := otel.Tracer("deep-shop").Start(c.Request.Context(), "CheckoutCOD")
	defer span.End()

	user := middleware.CurrentUser(c)

	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full name, phone and address are required"})
		return
	}

	cfg, err := h.config.Get(ctx)
	if err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to load site config", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if !modeEnabled(cfg, models.VerificationNone) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cash on delivery is not available"})
		return
	}

	order, err := h.finalize(ctx, user, req.address(), finalizeOptions{
		verification:  models.VerificationNone,
		paymentMethod: "cod",
	})
	if err != nil {
		span.RecordError(err)
		h.respondFinalizeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}
