package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"deepshop/models"

	"github.com/redis/go-redis/v9"
)

// PendingTTL bounds how long a checkout may sit at the external gateway
// before its pending entry expires and the callback is refused.
const PendingTTL = 30 * time.Minute

// PendingCheckout is the state that must survive the full-page redirect
// to the wallet gateway. The idempotency key ties the entry to exactly
// one initiate call.
type PendingCheckout struct {
	UserID         string         `json:"userId"`
	Address        models.Address `json:"address"`
	IdempotencyKey string         `json:"idempotencyKey"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// PendingStore persists pending checkouts with a TTL. Consume removes
// the entry atomically, so a replayed gateway callback finds nothing and
// cannot produce a second order.
type PendingStore struct {
	rdb *redis.Client
}

func NewPendingStore(rdb *redis.Client) *PendingStore {
	return &PendingStore{rdb: rdb}
}

func pendingKey(userID string) string {
	return fmt.Sprintf("pending_checkout:%s", userID)
}

func (p *PendingStore) Put(ctx context.Context, pending PendingCheckout) error {
	data, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("failed to encode pending checkout: %w", err)
	}
	if err := p.rdb.Set(ctx, pendingKey(pending.UserID), data, PendingTTL).Err(); err != nil {
		return fmt.Errorf("failed to store pending checkout: %w", err)
	}
	return nil
}

// Consume returns the pending entry and deletes it in one round trip.
// Returns (nil, nil) when no entry exists.
func (p *PendingStore) Consume(ctx context.Context, userID string) (*PendingCheckout, error) {
	data, err := p.rdb.GetDel(ctx, pendingKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to consume pending checkout: %w", err)
	}

	var pending PendingCheckout
	if err := json.Unmarshal(data, &pending); err != nil {
		return nil, fmt.Errorf("failed to decode pending checkout: %w", err)
	}
	return &pending, nil
}
