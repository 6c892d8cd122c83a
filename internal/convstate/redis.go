package convstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is the shared Store for multi-instance deployments. Markers carry
// a TTL so an abandoned prompt expires on its own.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

func key(userID int64) string {
	return fmt.Sprintf("convstate:%d", userID)
}

func (r *Redis) SetPending(ctx context.Context, userID int64, field Field) error {
	if field == FieldNone {
		return r.Clear(ctx, userID)
	}
	if err := r.client.Set(ctx, key(userID), string(field), r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set pending marker: %w", err)
	}
	return nil
}

func (r *Redis) Pending(ctx context.Context, userID int64) (Field, error) {
	val, err := r.client.Get(ctx, key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return FieldNone, nil
	}
	if err != nil {
		return FieldNone, fmt.Errorf("failed to get pending marker: %w", err)
	}
	return Field(val), nil
}

func (r *Redis) Clear(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("failed to clear pending marker: %w", err)
	}
	return nil
}
