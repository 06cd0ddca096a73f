package domain

import (
	"context"
	"time"
)

// Cache defines the interface for caching upstream lookups.
// Supports two-phase caching: local LRU (Community) + Redis (Pro).
type Cache interface {
	// Get retrieves a value from cache. Returns nil, nil if key not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from cache.
	Delete(ctx context.Context, key string) error

	// GetEnterprise retrieves a cached registry record for a tax id.
	GetEnterprise(ctx context.Context, taxID string) (*EnterpriseRecord, error)

	// SetEnterprise caches a registry record for a tax id.
	SetEnterprise(ctx context.Context, taxID string, rec *EnterpriseRecord, ttl time.Duration) error

	// IncrementCounter atomically increments a counter and returns the new
	// value. Used to track upstream request volume per time window.
	IncrementCounter(ctx context.Context, key string, window time.Duration) (int64, error)

	// Health check
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}

// CacheConfig holds configuration for cache initialization.
type CacheConfig struct {
	// Type is the cache type: "memory" or "redis"
	Type string

	// Local LRU cache settings (Community tier)
	LocalMaxSize int
	LocalTTL     time.Duration

	// Redis settings (Pro tier)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// EnableTwoPhase layers the local LRU in front of Redis.
	EnableTwoPhase bool
}
