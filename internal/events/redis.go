package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/soulscroll/luma/internal/utils"
)

// RedisConfig represents Redis Streams configuration
type RedisConfig struct {
	URL      string // Redis URL (e.g., redis://localhost:6379) or host:port
	Password string // Optional password
	DB       int    // Database number (default: 0)
	Stream   string // Stream prefix (default: "luma")
}

// RedisTransport implements Transport using Redis Streams
type RedisTransport struct {
	client *redis.Client
	stream string
}

// newRedisTransport creates a Redis Streams transport and verifies the connection
func newRedisTransport(cfg RedisConfig) (*RedisTransport, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		// Fallback to host:port
		opts = &redis.Options{
			Addr:     cfg.URL,
			Password: cfg.Password,
			DB:       cfg.DB,
		}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), utils.BrokerConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if cfg.Stream == "" {
		cfg.Stream = "luma"
	}

	return &RedisTransport{client: client, stream: cfg.Stream}, nil
}

// StreamKey converts a subject to a Redis stream key
func (t *RedisTransport) StreamKey(subject string) string {
	return fmt.Sprintf("%s:%s", t.stream, subject)
}

// Publish appends a message to the subject's stream
func (t *RedisTransport) Publish(ctx context.Context, subject string, data []byte) error {
	stream := t.StreamKey(subject)

	err := t.client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		ID:     "*",
		Values: map[string]interface{}{
			"data": data,
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to publish to Redis stream %s: %w", stream, err)
	}

	return nil
}

// Close closes the Redis client
func (t *RedisTransport) Close() error {
	return t.client.Close()
}
