package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/redis/go-redis/v9"
)

// Config holds the Redis connection and cache settings.
type Config struct {
	RedisAddr     string
	RedisPassword string
	Prefix        string
	TTL           time.Duration
	AuthLimit     LimitConfig
}

// Module owns the shared Redis client. The client connects lazily, so the
// cache and limiter can be handed to other modules before Start.
type Module struct {
	client  *redis.Client
	cache   *Cache
	limiter *SlidingWindowLimiter
	config  Config
	logger  types.Logger
}

var _ mono.Module = (*Module)(nil)
var _ mono.HealthCheckableModule = (*Module)(nil)

// NewModule creates the cache module.
func NewModule(config Config, logger types.Logger) *Module {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
	})
	return &Module{
		client:  client,
		cache:   New(client, config.Prefix, config.TTL),
		limiter: NewSlidingWindowLimiter(client, config.AuthLimit, config.Prefix+"ratelimit:"),
		config:  config,
		logger:  logger.WithModule("cache"),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cache"
}

// Cache returns the task cache.
func (m *Module) Cache() *Cache {
	return m.cache
}

// Limiter returns the auth endpoint limiter.
func (m *Module) Limiter() *SlidingWindowLimiter {
	return m.limiter
}

// Start verifies the Redis connection.
func (m *Module) Start(ctx context.Context) error {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis at %s: %w", m.config.RedisAddr, err)
	}
	m.logger.Info("Module started", "redis", m.config.RedisAddr, "ttl", m.config.TTL.String())
	return nil
}

// Stop logs the final statistics. The client is closed by Close during
// shutdown, after the modules using it have stopped.
func (m *Module) Stop(_ context.Context) error {
	stats := m.cache.GetStats()
	m.logger.Info("Module stopped", "hits", stats.Hits, "misses", stats.Misses, "hit_rate", stats.HitRate)
	return nil
}

// Close closes the Redis client.
func (m *Module) Close() error {
	return m.client.Close()
}

// Health pings Redis and reports cache statistics.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("redis ping failed: %v", err),
		}
	}

	stats := m.cache.GetStats()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"redis":    m.config.RedisAddr,
			"hits":     stats.Hits,
			"misses":   stats.Misses,
			"hit_rate": stats.HitRate,
		},
	}
}
