package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"deepshop/middleware"
	"deepshop/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errEmptyCart = errors.New("cart is empty")

type finalizeOptions struct {
	verification  models.VerificationType
	advancePaid   float64
	paymentMethod string
	transactionID string
	parentInfo    *models.ParentInfo
}

// finalize builds and writes the order from the cart as it exists right
// now, not from a snapshot taken before any redirect. The total is
// recomputed server-side from the cart lines. The order event is
// published best-effort: a producer failure is logged and the order
// stands.
func (h *CheckoutHandler) finalize(ctx context.Context, user *models.User, addr models.Address, opts finalizeOptions) (*models.Order, error) {
	items, err := h.carts.Get(ctx, user.UID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errEmptyCart
	}

	var total float64
	products := make([]models.OrderProduct, 0, len(items))
	sellerID := items[0].SellerID
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
		if item.SellerID != sellerID {
			sellerID = ""
		}
		products = append(products, models.OrderProduct{
			ProductID: item.ProductID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Image:     item.Image,
		})
	}

	order := &models.Order{
		UserInfo: models.OrderUserInfo{
			UserID:   user.UID,
			UserName: user.Name,
			Phone:    addr.Phone,
		},
		SellerID:         sellerID,
		Products:         products,
		TotalAmount:      total,
		AdvancePaid:      opts.advancePaid,
		Status:           models.OrderStatusPending,
		PaymentMethod:    opts.paymentMethod,
		TransactionID:    opts.transactionID,
		Address:          addr,
		VerificationType: opts.verification,
		ParentInfo:       opts.parentInfo,
		Timestamp:        time.Now().UTC(),
	}

	orderID, err := h.orders.Insert(ctx, order)
	if err != nil {
		return nil, err
	}

	event := models.OrderEvent{
		EventType:        "order_created",
		OrderID:          orderID,
		UserName:         user.Name,
		Phone:            addr.Phone,
		Products:         products,
		TotalAmount:      total,
		AdvancePaid:      opts.advancePaid,
		PaymentMethod:    opts.paymentMethod,
		TransactionID:    opts.transactionID,
		FullAddress:      addr.FullAddress,
		VerificationType: opts.verification,
	}
	if err := h.events.Publish(ctx, event); err != nil {
		h.logger.Warn("Failed to publish order event", zap.String("order_id", orderID), zap.Error(err))
	}

	if err := h.carts.Clear(ctx, user.UID); err != nil {
		h.logger.Warn("Failed to clear cart", zap.String("user_uid", user.UID), zap.Error(err))
	}

	middleware.RecordOrderPlaced(string(opts.verification))
	h.logger.Info("Order created",
		zap.String("order_id", orderID),
		zap.String("user_uid", user.UID),
		zap.String("verification_type", string(opts.verification)),
		zap.Float64("total_amount", total),
	)
	return order, nil
}

func (h *CheckoutHandler) respondFinalizeError(c *gin.Context, err error) {
	if errors.Is(err, errEmptyCart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}
	h.logger.Error("Failed to finalize order", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
