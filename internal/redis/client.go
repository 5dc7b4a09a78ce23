package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"restaurant_manager/internal/models"

	"github.com/go-redis/redis/v8"
)

var ErrCacheMiss = errors.New("cache miss")

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// NewFromClient wraps an existing go-redis client.
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

func OrderSequenceKey(storeID uint) string {
	return fmt.Sprintf("order_seq:%d", storeID)
}

func storeKey(slug string) string {
	return "store:slug:" + slug
}

// NextSequence atomically increments key. The first time the key is seen it
// is initialised with the value returned by seed, so numbering continues
// from existing data.
func (c *Client) NextSequence(ctx context.Context, key string, seed func(context.Context) (int64, error)) (int64, error) {
	exists, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to check sequence: %w", err)
	}
	if exists == 0 {
		start, err := seed(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to seed sequence: %w", err)
		}
		// SETNX keeps a value another instance set in the meantime.
		if err := c.rdb.SetNX(ctx, key, start, 0).Err(); err != nil {
			return 0, fmt.Errorf("failed to seed sequence: %w", err)
		}
	}

	n, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}
	return n, nil
}

// SetSequence overwrites key, realigning a counter that fell behind.
func (c *Client) SetSequence(ctx context.Context, key string, value int64) error {
	if err := c.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to set sequence: %w", err)
	}
	return nil
}

// Store lookup cache
func (c *Client) GetStore(ctx context.Context, slug string) (*models.Store, error) {
	val, err := c.rdb.Get(ctx, storeKey(slug)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	var store models.Store
	if err := json.Unmarshal([]byte(val), &store); err != nil {
		return nil, fmt.Errorf("failed to unmarshal store: %w", err)
	}
	return &store, nil
}

func (c *Client) SetStore(ctx context.Context, store *models.Store, ttl time.Duration) error {
	jsonData, err := json.Marshal(store)
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}
	return c.rdb.Set(ctx, storeKey(store.Slug), jsonData, ttl).Err()
}

func (c *Client) DeleteStore(ctx context.Context, slug string) error {
	return c.rdb.Del(ctx, storeKey(slug)).Err()
}

func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
