package handlers

import (
	"context"
	"io"

	"deepshop/cache"
	"deepshop/fraud"
	"deepshop/models"
)

// Handler dependencies are declared as interfaces so tests can drop in
// fakes; the concrete implementations live in cache/, kafka/, fraud/ and
// imagehost/.

type CartStore interface {
	Get(ctx context.Context, userID string) ([]models.CartItem, error)
	Put(ctx context.Context, userID string, items []models.CartItem) error
	Clear(ctx context.Context, userID string) error
}

type PendingStore interface {
	Put(ctx context.Context, pending cache.PendingCheckout) error
	Consume(ctx context.Context, userID string) (*cache.PendingCheckout, error)
}

type PinStore interface {
	Toggle(ctx context.Context, userID, chatID string) (bool, error)
	List(ctx context.Context, userID string) ([]string, error)
}

type ProductCache interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	Set(ctx context.Context, id string, product *models.Product) error
	Delete(ctx context.Context, id string) error
}

type Publisher interface {
	Publish(ctx context.Context, event any) error
}

type FraudChecker interface {
	Check(ctx context.Context, phone string) (*fraud.Report, error)
}

type Uploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (string, error)
}
