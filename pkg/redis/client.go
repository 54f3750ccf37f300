package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deliverypro/deliverypro-backend/pkg/config"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	keyNamespace      = "dp"
	idempotencyPrefix = "idempotency"
	sessionPrefix     = "session"
	dashboardPrefix   = "dashboard"
)

// ErrNotFound is returned when a key does not exist.
var ErrNotFound = errors.New("key not found")

// Store is the minimal key-value surface the platform needs. Backed by Redis
// when a URL is configured, by an in-process map otherwise, so the mocked
// stack boots without external services.
type Store interface {
	Ping(ctx context.Context) error
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
}

// Client wraps the session/idempotency store with key helpers.
type Client struct {
	store Store
	raw   *redis.Client
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// New bootstraps the store. An empty URL selects the in-process fallback.
func New(ctx context.Context, cfg config.RedisConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		if logg != nil {
			logg.Warn(ctx, "redis url not configured, using in-process store")
		}
		return &Client{store: newMemoryStore()}, nil
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	if opts.PoolSize == 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if opts.MinIdleConns == 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}
	if opts.DialTimeout == 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = cfg.ReadTimeout
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}

	raw := redis.NewClient(opts)
	if err := raw.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Client{store: redisStore{raw: raw}, raw: raw}, nil
}

// NewWithStore builds a client over an explicit store. Used by tests.
func NewWithStore(store Store) *Client {
	return &Client{store: store}
}

// Ping verifies the store is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.store == nil {
		return errors.New("store not initialized")
	}
	return c.store.Ping(ctx)
}

// Get returns the value stored at key, or ErrNotFound.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	if c == nil || c.store == nil {
		return "", errors.New("store not initialized")
	}
	return c.store.Get(ctx, key)
}

// Set stores a value with an optional TTL.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if c == nil || c.store == nil {
		return errors.New("store not initialized")
	}
	return c.store.Set(ctx, key, value, ttl)
}

// SetNX stores a value only when the key does not exist yet.
func (c *Client) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	if c == nil || c.store == nil {
		return false, errors.New("store not initialized")
	}
	return c.store.SetNX(ctx, key, value, ttl)
}

// Del removes the given keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if c == nil || c.store == nil {
		return errors.New("store not initialized")
	}
	return c.store.Del(ctx, keys...)
}

// Close releases the underlying connection pool, if any.
func (c *Client) Close() error {
	if c == nil || c.raw == nil {
		return nil
	}
	return c.raw.Close()
}

// SessionKey namespaces storefront session tokens.
func (c *Client) SessionKey(id string) string {
	return fmt.Sprintf("%s:%s:%s", keyNamespace, sessionPrefix, id)
}

// DashboardSessionKey namespaces dashboard auth sessions.
func (c *Client) DashboardSessionKey(id string) string {
	return fmt.Sprintf("%s:%s:%s", keyNamespace, dashboardPrefix, id)
}

// IdempotencyKey namespaces idempotency records by scope.
func (c *Client) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyNamespace, idempotencyPrefix, scope, id)
}

type redisStore struct {
	raw *redis.Client
}

func (s redisStore) Ping(ctx context.Context) error {
	return s.raw.Ping(ctx).Err()
}

func (s redisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.raw.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

func (s redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.raw.Set(ctx, key, value, ttl).Err()
}

func (s redisStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return s.raw.SetNX(ctx, key, value, ttl).Result()
}

func (s redisStore) Del(ctx context.Context, keys ...string) error {
	return s.raw.Del(ctx, keys...).Err()
}
