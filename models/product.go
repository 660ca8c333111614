package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type StockStatus string

const (
	StockInStock    StockStatus = "instock"
	StockOutOfStock StockStatus = "outofstock"
	StockPreorder   StockStatus = "preorder"
)

func (s StockStatus) Valid() bool {
	switch s {
	case StockInStock, StockOutOfStock, StockPreorder:
		return true
	}
	return false
}

type Product struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Category    string             `json:"category" bson:"category"`
	Price       float64            `json:"price" bson:"price"`
	OldPrice    float64            `json:"oldPrice,omitempty" bson:"oldPrice,omitempty"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image" bson:"image"`
	Stock       StockStatus        `json:"stock" bson:"stock"`
	SellerID    string             `json:"sellerId,omitempty" bson:"sellerId,omitempty"`
	SellerName  string             `json:"sellerName,omitempty" bson:"sellerName,omitempty"`
	SellerPhone string             `json:"sellerPhone,omitempty" bson:"sellerPhone,omitempty"`
	Views       int64              `json:"views" bson:"views"`
	IsPromoted  bool               `json:"isPromoted" bson:"isPromoted"`
	Timestamp   time.Time          `json:"timestamp" bson:"timestamp"`
}

type CreateProductRequest struct {
	Name        string      `json:"name" binding:"required"`
	Category    string      `json:"category" binding:"required"`
	Price       float64     `json:"price" binding:"required,gt=0"`
	OldPrice    float64     `json:"oldPrice"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Stock       StockStatus `json:"stock"`
	IsPromoted  bool        `json:"isPromoted"`
}

type UpdateProductRequest struct {
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Price       float64     `json:"price"`
	OldPrice    float64     `json:"oldPrice"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Stock       StockStatus `json:"stock"`
	IsPromoted  *bool       `json:"isPromoted"`
}

type Review struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ProductID string             `json:"productId" bson:"productId"`
	UserID    string             `json:"userId" bson:"userId"`
	UserName  string             `json:"userName" bson:"userName"`
	Rating    int                `json:"rating" bson:"rating"`
	Comment   string             `json:"comment" bson:"comment"`
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`
}

// CartItem is a line in the server-side cart. The cart is the source of
// truth at finalize time: checkout re-reads it rather than trusting a
// snapshot taken before the payment redirect.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image,omitempty"`
	SellerID  string  `json:"sellerId,omitempty"`
}
