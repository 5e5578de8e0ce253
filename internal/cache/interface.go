package cache

import (
	"context"
	"errors"
	"time"
)

// ErrConflict is returned when a key kept changing under an Update.
var ErrConflict = errors.New("cache: key modified concurrently")

// Cache stores JSON encoded values under string keys.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Updater reads, modifies and writes one key atomically. fn sees value decoded
// from the stored payload, or left as is when found is false, and reports
// whether value must be written back.
type Updater interface {
	Update(ctx context.Context, key string, value any, ttl time.Duration, fn func(found bool) (bool, error)) error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	ProductKeyPrefix     = "product"
	ProductListKey       = "products:active"
	EventKeyPrefix       = "event"
	ContestantKeyPrefix  = "contestant"
	LeaderboardKeyPrefix = "leaderboard"
)
