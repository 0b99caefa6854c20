package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"warehouse-service/internal/models"

	"github.com/go-redis/redis/v8"
)

const inventoryTTL = 5 * time.Minute

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client and verifies connectivity
func NewClient(addr, password string, db int) (*Client, error) {
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

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func inventoryKey(id string) string {
	return fmt.Sprintf("inventory:%s", id)
}

// GetInventory returns the cached row, or nil on a miss.
func (c *Client) GetInventory(ctx context.Context, id string) (*models.Inventory, error) {
	data, err := c.rdb.Get(ctx, inventoryKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var inv models.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached inventory: %w", err)
	}
	return &inv, nil
}

// SetInventory caches a row with a TTL
func (c *Client) SetInventory(ctx context.Context, inv *models.Inventory) error {
	data, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	return c.rdb.Set(ctx, inventoryKey(inv.ID), data, inventoryTTL).Err()
}

// InvalidateInventory drops a cached row
func (c *Client) InvalidateInventory(ctx context.Context, id string) error {
	return c.rdb.Del(ctx, inventoryKey(id)).Err()
}

// AcquireLock acquires a distributed lock
func (c *Client) AcquireLock(ctx context.Context, lockKey string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("lock:%s", lockKey), "1", ttl).Result()
}

// ReleaseLock releases a distributed lock
func (c *Client) ReleaseLock(ctx context.Context, lockKey string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("lock:%s", lockKey)).Err()
}
