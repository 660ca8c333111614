package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusPackaging  OrderStatus = "packaging"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCanceled   OrderStatus = "canceled"
)

// AllOrderStatuses is the full status set. Status updates validate
// membership only: any status may be written over any other, matching the
// original product behavior. ValidNext exists for a future transition
// guard but nothing enforces it today.
var AllOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusPackaging,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCanceled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range AllOrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ValidNext returns the forward transitions of the nominal lifecycle
// (pending → processing → packaging → shipped → delivered, canceled from
// any non-terminal state). Not enforced anywhere.
func (s OrderStatus) ValidNext() []OrderStatus {
	switch s {
	case OrderStatusPending:
		return []OrderStatus{OrderStatusProcessing, OrderStatusCanceled}
	case OrderStatusProcessing:
		return []OrderStatus{OrderStatusPackaging, OrderStatusCanceled}
	case OrderStatusPackaging:
		return []OrderStatus{OrderStatusShipped, OrderStatusCanceled}
	case OrderStatusShipped:
		return []OrderStatus{OrderStatusDelivered, OrderStatusCanceled}
	default:
		return nil
	}
}

type VerificationType string

const (
	VerificationAdvance VerificationType = "advance"
	VerificationNID     VerificationType = "nid"
	VerificationNone    VerificationType = "none"
)

type OrderUserInfo struct {
	UserID   string `json:"userId" bson:"userId"`
	UserName string `json:"userName" bson:"userName"`
	Phone    string `json:"phone" bson:"phone"`
}

type OrderProduct struct {
	ProductID string  `json:"productId" bson:"productId"`
	Name      string  `json:"name" bson:"name"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	Image     string  `json:"image,omitempty" bson:"image,omitempty"`
}

type Address struct {
	FullName    string `json:"fullName" bson:"fullName"`
	FullAddress string `json:"fullAddress" bson:"fullAddress"`
	Phone       string `json:"phone" bson:"phone"`
}

// ParentInfo is the guardian identity recorded for nid-verified orders in
// place of an advance payment.
type ParentInfo struct {
	ParentType  string `json:"parentType" bson:"parentType"` // Mother or Father
	ParentName  string `json:"parentName" bson:"parentName"`
	ParentPhone string `json:"parentPhone" bson:"parentPhone"`
}

// Order is created once at checkout; only the status field is mutated
// afterwards (by seller/admin). Never deleted in normal flow.
type Order struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserInfo         OrderUserInfo      `json:"userInfo" bson:"userInfo"`
	SellerID         string             `json:"sellerId,omitempty" bson:"sellerId,omitempty"`
	Products         []OrderProduct     `json:"products" bson:"products"`
	TotalAmount      float64            `json:"totalAmount" bson:"totalAmount"`
	AdvancePaid      float64            `json:"advancePaid" bson:"advancePaid"`
	Status           OrderStatus        `json:"status" bson:"status"`
	PaymentMethod    string             `json:"paymentMethod" bson:"paymentMethod"`
	TransactionID    string             `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Address          Address            `json:"address" bson:"address"`
	VerificationType VerificationType   `json:"verificationType" bson:"verificationType"`
	ParentInfo       *ParentInfo        `json:"parentInfo,omitempty" bson:"parentInfo,omitempty"`
	Timestamp        time.Time          `json:"timestamp" bson:"timestamp"`
}

// OrderEvent is the Kafka payload published once per created order. The
// notification consumer formats the operator message from it.
type OrderEvent struct {
	EventType        string           `json:"event_type"` // order_created
	OrderID          string           `json:"order_id"`
	UserName         string           `json:"user_name"`
	Phone            string           `json:"phone"`
	Products         []OrderProduct   `json:"products"`
	TotalAmount      float64          `json:"total_amount"`
	AdvancePaid      float64          `json:"advance_paid"`
	PaymentMethod    string           `json:"payment_method"`
	TransactionID    string           `json:"transaction_id,omitempty"`
	FullAddress      string           `json:"full_address"`
	VerificationType VerificationType `json:"verification_type"`
}
