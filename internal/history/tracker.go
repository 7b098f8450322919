// Package history remembers which searches went to the external services
// recently, so an unmatched query is not sent out again on every request.
package history

import (
	"context"
	"fmt"
	"time"

	"atlas-api/internal/normalize"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "atlas:recent:"

// Tracker records recent remote searches in Redis.
type Tracker struct {
	client *redis.Client
	window time.Duration
}

// NewTracker creates a tracker over an existing client.
func NewTracker(client *redis.Client, window time.Duration) *Tracker {
	return &Tracker{client: client, window: window}
}

// Connect parses a redis:// URL and pings the server.
func Connect(ctx context.Context, redisURL string, window time.Duration) (*Tracker, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("history: invalid redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("history: failed to reach redis: %w", err)
	}
	return NewTracker(client, window), nil
}

// SearchedRecently reports whether search was already recorded within the
// window, and records it if not. Redis failures count as not recent.
func (t *Tracker) SearchedRecently(ctx context.Context, search string) bool {
	if t == nil || t.client == nil {
		return false
	}
	key := keyPrefix + normalize.MakeKey(search)
	created, err := t.client.SetNX(ctx, key, time.Now().Unix(), t.window).Result()
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("search", search).Msg("search history unavailable")
		return false
	}
	return !created
}

// Forget removes search from the history.
func (t *Tracker) Forget(ctx context.Context, search string) error {
	if t == nil || t.client == nil {
		return nil
	}
	if err := t.client.Del(ctx, keyPrefix+normalize.MakeKey(search)).Err(); err != nil {
		return fmt.Errorf("history: failed to forget search: %w", err)
	}
	return nil
}

// Close releases the Redis connection.
func (t *Tracker) Close() error {
	if t == nil || t.client == nil {
		return nil
	}
	return t.client.Close()
}
