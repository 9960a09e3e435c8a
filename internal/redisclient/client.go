package redisclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-service/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const (
	keyCategories  = "catalog:categories"
	keyIdempotency = "idempotency:checkout:%s"
)

type Client struct {
	rdb            *redis.Client
	categoryTTL    time.Duration
	idempotencyTTL time.Duration
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int, categoryTTL, idempotencyTTL time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{
		rdb:            rdb,
		categoryTTL:    categoryTTL,
		idempotencyTTL: idempotencyTTL,
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// GetCategories reads the cached category listing. The second return value
// reports a cache hit.
func (c *Client) GetCategories(ctx context.Context) ([]models.Category, bool, error) {
	raw, err := c.rdb.Get(ctx, keyCategories).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var categories []models.Category
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, false, fmt.Errorf("corrupt category cache: %w", err)
	}
	return categories, true, nil
}

// SetCategories caches the category listing
func (c *Client) SetCategories(ctx context.Context, categories []models.Category) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyCategories, raw, c.categoryTTL).Err()
}

// InvalidateCategories drops the cached category listing
func (c *Client) InvalidateCategories(ctx context.Context) error {
	return c.rdb.Del(ctx, keyCategories).Err()
}

// GetIdempotentOrder looks up the order created by a previous checkout
// with the same idempotency key
func (c *Client) GetIdempotentOrder(ctx context.Context, key string) (uuid.UUID, bool, error) {
	raw, err := c.rdb.Get(ctx, fmt.Sprintf(keyIdempotency, key)).Result()
	if err == redis.Nil {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, err
	}

	orderID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt idempotency entry: %w", err)
	}
	return orderID, true, nil
}

// SetIdempotentOrder records the order created for an idempotency key
func (c *Client) SetIdempotentOrder(ctx context.Context, key string, orderID uuid.UUID) error {
	return c.rdb.Set(ctx, fmt.Sprintf(keyIdempotency, key), orderID.String(), c.idempotencyTTL).Err()
}
