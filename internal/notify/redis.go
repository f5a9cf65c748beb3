package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisOutbox appends emails to a Redis list consumed by the mail worker.
type RedisOutbox struct {
	client *redis.Client
	key    string
}

// NewRedisOutbox connects to Redis and verifies the connection.
func NewRedisOutbox(ctx context.Context, addr, password string, db int, key string) (*RedisOutbox, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisOutbox{client: client, key: key}, nil
}

// Send pushes the email onto the outbox list.
func (o *RedisOutbox) Send(ctx context.Context, email Email) error {
	data, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("failed to marshal email: %w", err)
	}
	if err := o.client.RPush(ctx, o.key, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue email: %w", err)
	}
	zerolog.Ctx(ctx).Debug().
		Str("outbox", o.key).
		Str("kind", string(email.Kind)).
		Str("appointment_id", email.AppointmentID).
		Msg("email enqueued")
	return nil
}

// Close closes the Redis connection.
func (o *RedisOutbox) Close() error {
	return o.client.Close()
}
