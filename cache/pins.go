package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PinStore keeps each user's pinned chat ids, the state the storefront
// used to hold per device. Pins are a Redis set per user and survive as
// long as the account does.
type PinStore struct {
	rdb *redis.Client
}

func NewPinStore(rdb *redis.Client) *PinStore {
	return &PinStore{rdb: rdb}
}

func pinKey(userID string) string {
	return fmt.Sprintf("pinned_chats:%s", userID)
}

// Toggle flips the pin for one chat and reports whether it is pinned
// afterwards.
func (p *PinStore) Toggle(ctx context.Context, userID, chatID string) (bool, error) {
	key := pinKey(userID)

	pinned, err := p.rdb.SIsMember(ctx, key, chatID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to read pin: %w", err)
	}

	if pinned {
		if err := p.rdb.SRem(ctx, key, chatID).Err(); err != nil {
			return false, fmt.Errorf("failed to unpin chat: %w", err)
		}
		return false, nil
	}
	if err := p.rdb.SAdd(ctx, key, chatID).Err(); err != nil {
		return false, fmt.Errorf("failed to pin chat: %w", err)
	}
	return true, nil
}

func (p *PinStore) List(ctx context.Context, userID string) ([]string, error) {
	ids, err := p.rdb.SMembers(ctx, pinKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list pins: %w", err)
	}
	return ids, nil
}
