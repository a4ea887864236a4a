// internal/infrastructure/localstore/connection.go
package localstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/ricecart/internal/config"
)

// Store is the client-local key-value store. It plays the role the
// browser's localStorage plays for the web storefront: a handful of fixed
// keys ("cart", "auth_token") owned by this client, shared by nothing else.
type Store struct {
	redis *redis.Client
}

// Fixed storage keys. The cart slot holds the whole serialized cart;
// the token slot holds the raw bearer token string.
const (
	CartKey  = "cart"
	TokenKey = "auth_token"
)

// NewConnection creates a new local store connection
func NewConnection(cfg *config.Config) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.GetLocalStoreAddr(),
		Password:     cfg.LocalStore.Password,
		DB:           cfg.LocalStore.DB,
		PoolSize:     cfg.LocalStore.PoolSize,
		MinIdleConns: cfg.LocalStore.MinIdleConns,

		// Connection timeouts
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		PoolTimeout: 4 * time.Second,
	})

	// Test the connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to local store: %w", err)
	}

	return &Store{redis: rdb}, nil
}

// NewWithClient wraps an existing Redis client (used by tests)
func NewWithClient(client *redis.Client) *Store {
	return &Store{redis: client}
}

// Close closes the local store connection
func (s *Store) Close() error {
	return s.redis.Close()
}

// Health checks the local store connection health
func (s *Store) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.redis.Ping(ctx).Err()
}

// Get retrieves the value stored under key. A missing key is returned as
// ("", nil): absence is an ordinary state for every slot this client owns.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, err := s.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("local store get %q: %w", key, err)
	}
	return value, nil
}

// Set stores a value under key with an optional expiration (0 = keep forever)
func (s *Store) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	if err := s.redis.Set(ctx, key, value, expiration).Err(); err != nil {
		return fmt.Errorf("local store set %q: %w", key, err)
	}
	return nil
}

// Del removes a key
func (s *Store) Del(ctx context.Context, key string) error {
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("local store del %q: %w", key, err)
	}
	return nil
}
