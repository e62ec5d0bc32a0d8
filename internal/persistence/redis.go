package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/wallet-service/internal/config"
)

// Redis wraps the go-redis client.
type Redis struct {
	Client *redis.Client
}

// NewRedis connects to Redis using the provided configuration.
func NewRedis(cfg config.RedisConfig, logger *zap.Logger) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &Redis{Client: client}
}

// Close closes the client.
func (r *Redis) Close() {
	if r != nil && r.Client != nil {
		_ = r.Client.Close()
	}
}

// Ping verifies Redis connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	if r == nil || r.Client == nil {
		return errors.New("redis client not configured")
	}
	return r.Client.Ping(ctx).Err()
}

const groupEmailsPrefix = "group:emails:"

// GroupCache caches group member emails, the hot lookup behind Group-mode
// authorization checks. A cache failure is never fatal; callers fall back
// to the database.
type GroupCache struct {
	redis *Redis
	ttl   time.Duration
}

// NewGroupCache builds a cache over the shared Redis client.
func NewGroupCache(r *Redis, ttl time.Duration) *GroupCache {
	return &GroupCache{redis: r, ttl: ttl}
}

// GetEmails returns the cached member emails for the group, or ok=false on
// miss or any Redis error.
func (c *GroupCache) GetEmails(ctx context.Context, name string) ([]string, bool) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return nil, false
	}
	raw, err := c.redis.Client.Get(ctx, groupEmailsPrefix+name).Bytes()
	if err != nil {
		return nil, false
	}
	var emails []string
	if err := json.Unmarshal(raw, &emails); err != nil {
		return nil, false
	}
	return emails, true
}

// SetEmails stores the member emails for the group.
func (c *GroupCache) SetEmails(ctx context.Context, name string, emails []string) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	raw, err := json.Marshal(emails)
	if err != nil {
		return
	}
	_ = c.redis.Client.Set(ctx, groupEmailsPrefix+name, raw, c.ttl).Err()
}

// Invalidate drops the cached membership after a mutation.
func (c *GroupCache) Invalidate(ctx context.Context, name string) {
	if c == nil || c.redis == nil || c.redis.Client == nil {
		return
	}
	_ = c.redis.Client.Del(ctx, groupEmailsPrefix+name).Err()
}
