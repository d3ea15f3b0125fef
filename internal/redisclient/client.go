package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"influencer-dashboard/internal/models"

	"github.com/go-redis/redis/v8"
)

const selectionKeyPrefix = "selection:"

type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewClient creates a new Redis client and verifies the connection
func NewClient(addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewClientFromRedis(rdb, ttl), nil
}

// NewClientFromRedis wraps an existing connection
func NewClientFromRedis(rdb *redis.Client, ttl time.Duration) *Client {
	return &Client{rdb: rdb, ttl: ttl}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

func selectionKey(sessionID string) string {
	return selectionKeyPrefix + sessionID
}

// SaveSelection stores the session's filter selection, refreshing its TTL
func (c *Client) SaveSelection(ctx context.Context, sessionID string, sel models.Selection) error {
	data, err := json.Marshal(sel)
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}
	if err := c.rdb.Set(ctx, selectionKey(sessionID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}

// GetSelection returns the stored selection; found is false when none exists
func (c *Client) GetSelection(ctx context.Context, sessionID string) (sel models.Selection, found bool, err error) {
	data, err := c.rdb.Get(ctx, selectionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Selection{}, false, nil
	}
	if err != nil {
		return models.Selection{}, false, fmt.Errorf("failed to get selection: %w", err)
	}
	if err := json.Unmarshal(data, &sel); err != nil {
		return models.Selection{}, false, fmt.Errorf("failed to unmarshal selection: %w", err)
	}
	return sel, true, nil
}

// DeleteSelection resets the session to the default selection
func (c *Client) DeleteSelection(ctx context.Context, sessionID string) error {
	if err := c.rdb.Del(ctx, selectionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete selection: %w", err)
	}
	return nil
}
