package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"qr_ordering/internal/models"
	"qr_ordering/internal/notify"

	"github.com/go-redis/redis/v8"
)

const statsKey = "stats:orders"

type Client struct {
	rdb *redis.Client
}

func Initialize(redisURL string) (*Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	return Connect(opt)
}

func Connect(opt *redis.Options) (*Client, error) {
	rdb := redis.NewClient(opt)

	// Test connection
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// EventBus publishes broadcaster events on a Redis channel so every server
// instance can relay them to its own connected viewers.
type EventBus struct {
	client  *Client
	channel string
}

func (c *Client) EventBus(channel string) *EventBus {
	return &EventBus{client: c, channel: channel}
}

func (b *EventBus) Publish(ctx context.Context, event notify.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.Type, err)
	}
	if err := b.client.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}
	return nil
}

// Relay forwards every message on the channel into hub until ctx is done.
// It returns once the subscription is confirmed and the forwarding goroutine is running.
func (b *EventBus) Relay(ctx context.Context, hub *notify.Hub) (<-chan struct{}, error) {
	pubsub := b.client.rdb.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				hub.Broadcast([]byte(msg.Payload))
			}
		}
	}()
	return done, nil
}

// StatsCache keeps the dashboard aggregate for a short TTL.
type StatsCache struct {
	client *Client
	ttl    time.Duration
}

func (c *Client) StatsCache(ttl time.Duration) *StatsCache {
	return &StatsCache{client: c, ttl: ttl}
}

func (s *StatsCache) Get(ctx context.Context) (*models.OrderStats, error) {
	val, err := s.client.rdb.Get(ctx, statsKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get order stats: %w", err)
	}

	var stats models.OrderStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal order stats: %w", err)
	}
	return &stats, nil
}

func (s *StatsCache) Set(ctx context.Context, stats *models.OrderStats) error {
	jsonData, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal order stats: %w", err)
	}
	return s.client.rdb.Set(ctx, statsKey, jsonData, s.ttl).Err()
}

func (s *StatsCache) Invalidate(ctx context.Context) error {
	return s.client.rdb.Del(ctx, statsKey).Err()
}
