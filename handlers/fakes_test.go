package handlers

import (
	"context"
	"errors"
	"io"
	"sync"

	"deepshop/cache"
	"deepshop/fraud"
	"deepshop/models"
	"deepshop/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory fakes for the store and cache interfaces the handlers
// consume.

type fakeOrderStore struct {
	mu        sync.Mutex
	orders    []*models.Order
	insertErr error
}

func (f *fakeOrderStore) Insert(ctx context.Context, order *models.Order) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return "", f.insertErr
	}
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	stored := *order
	f.orders = append(f.orders, &stored)
	return order.ID.Hex(), nil
}

func (f *fakeOrderStore) FindByID(ctx context.Context, id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID.Hex() == id {
			copied := *o
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeOrderStore) List(ctx context.Context, filter repository.OrderFilter) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, o := range f.orders {
		if filter.UserID != "" && o.UserInfo.UserID != filter.UserID {
			continue
		}
		if filter.SellerID != "" && o.SellerID != filter.SellerID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID.Hex() == id {
			o.Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeConfigStore struct {
	cfg models.SiteConfig
	err error
}

func (f *fakeConfigStore) Get(ctx context.Context) (*models.SiteConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	copied := f.cfg
	return &copied, nil
}

func (f *fakeConfigStore) Update(ctx context.Context, cfg *models.SiteConfig) error {
	f.cfg = *cfg
	return nil
}

type fakeCartStore struct {
	mu     sync.Mutex
	items  map[string][]models.CartItem
	clears int
}

func newFakeCartStore() *fakeCartStore {
	return &fakeCartStore{items: make(map[string][]models.CartItem)}
}

func (f *fakeCartStore) Get(ctx context.Context, userID string) ([]models.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.CartItem(nil), f.items[userID]...), nil
}

func (f *fakeCartStore) Put(ctx context.Context, userID string, items []models.CartItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[userID] = append([]models.CartItem(nil), items...)
	return nil
}

func (f *fakeCartStore) Clear(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, userID)
	f.clears++
	return nil
}

type fakePendingStore struct {
	mu      sync.Mutex
	entries map[string]cache.PendingCheckout
}

func newFakePendingStore() *fakePendingStore {
	return &fakePendingStore{entries: make(map[string]cache.PendingCheckout)}
}

func (f *fakePendingStore) Put(ctx context.Context, pending cache.PendingCheckout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[pending.UserID] = pending
	return nil
}

func (f *fakePendingStore) Consume(ctx context.Context, userID string) (*cache.PendingCheckout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	pending, ok := f.entries[userID]
	if !ok {
		return nil, nil
	}
	delete(f.entries, userID)
	return &pending, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []any
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, event any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

type fakeProductCache struct {
	mu       sync.Mutex
	products map[string]*models.Product
	sets     int
	deletes  int
}

func newFakeProductCache() *fakeProductCache {
	return &fakeProductCache{products: make(map[string]*models.Product)}
}

func (f *fakeProductCache) Get(ctx context.Context, id string) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, errors.New("cache miss")
}

func (f *fakeProductCache) Set(ctx context.Context, id string, product *models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *product
	f.products[id] = &copied
	f.sets++
	return nil
}

func (f *fakeProductCache) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.products, id)
	f.deletes++
	return nil
}

type fakeFraudChecker struct {
	report *fraud.Report
	err    error
}

func (f *fakeFraudChecker) Check(ctx context.Context, phone string) (*fraud.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type fakeUploader struct {
	url string
	err error
}

func (f *fakeUploader) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}
