package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"
)

// Blobs is the key-value surface the cart store persists through.
type Blobs interface {
	// Get returns the stored value, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

type redisBlobs struct {
	rdb *redis.Client
}

// NewRedisBlobs wraps a Redis client as a Blobs store.
func NewRedisBlobs(rdb *redis.Client) Blobs {
	return &redisBlobs{rdb: rdb}
}

func (b *redisBlobs) Get(ctx context.Context, key string) (string, error) {
	val, err := b.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("cart: failed to read blob %s: %w", key, err)
	}
	return val, nil
}

func (b *redisBlobs) Set(ctx context.Context, key, value string) error {
	if err := b.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("cart: failed to write blob %s: %w", key, err)
	}
	return nil
}

// Store persists one cart per user as a single JSON blob under a fixed
// key prefix.
type Store struct {
	blobs  Blobs
	prefix string
}

func NewStore(blobs Blobs, prefix string) *Store {
	if prefix == "" {
		prefix = "fashionChipsCart"
	}
	return &Store{blobs: blobs, prefix: prefix}
}

func (s *Store) key(userID string) string {
	return s.prefix + ":" + userID
}

// Load reads the persisted cart for userID. A missing or unreadable
// blob degrades to an empty cart; deserialization failures are never
// propagated.
func (s *Store) Load(ctx context.Context, userID string) Cart {
	val, err := s.blobs.Get(ctx, s.key(userID))
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("cart: failed to load cart, starting empty")
		return Cart{}
	}
	if val == "" {
		return Cart{}
	}

	var c Cart
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("cart: stored cart is corrupt, starting empty")
		return Cart{}
	}
	return c
}

// Save persists the full cart snapshot for userID.
func (s *Store) Save(ctx context.Context, userID string, c Cart) error {
	if c == nil {
		c = Cart{}
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cart: failed to marshal cart for user %s: %w", userID, err)
	}
	return s.blobs.Set(ctx, s.key(userID), string(payload))
}
