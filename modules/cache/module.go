package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-monolith/mono"
	"github.com/redis/go-redis/v9"
)

// Config configures the shared Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// NewClient builds the Redis client shared by the cache and the rate limiter.
func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// CacheModule owns the Redis client lifecycle.
type CacheModule struct {
	addr   string
	client *redis.Client
	cache  *Cache
}

var _ mono.Module = (*CacheModule)(nil)
var _ mono.HealthCheckableModule = (*CacheModule)(nil)

// NewModule creates a CacheModule over client. Keys written through Cache()
// are prefixed with prefix.
func NewModule(cfg Config, client *redis.Client, prefix string) *CacheModule {
	return &CacheModule{
		addr:   cfg.Addr,
		client: client,
		cache:  New(client, prefix, cfg.TTL),
	}
}

// Name returns the module name.
func (m *CacheModule) Name() string {
	return "cache"
}

// Cache returns the cache bound to the module's client.
func (m *CacheModule) Cache() *Cache {
	return m.cache
}

// Start verifies that Redis is reachable.
func (m *CacheModule) Start(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := m.client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.addr, err)
	}
	log.Printf("[cache] Connected to Redis at %s (prefix: %s, TTL: %s)", m.addr, m.cache.prefix, m.cache.ttl)
	return nil
}

// Stop closes the Redis client.
func (m *CacheModule) Stop(_ context.Context) error {
	if err := m.client.Close(); err != nil {
		log.Printf("[cache] Error closing Redis connection: %v", err)
		return fmt.Errorf("failed to close Redis connection: %w", err)
	}
	log.Println("[cache] Module stopped")
	return nil
}

// Health pings Redis and reports the cache counters.
func (m *CacheModule) Health(ctx context.Context) mono.HealthStatus {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}

	stats := m.cache.Stats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"addr":     m.addr,
			"hits":     stats.Hits,
			"misses":   stats.Misses,
			"hit_rate": stats.HitRate,
		},
	}
}
