package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
)

// Redis-backed cache for authoritative profile snapshots.
//
// The reconciler consults it before hitting the profile store so frequent
// ticks do not hammer the database. A nil client disables the cache; every
// method then reports a miss, and callers fall through to the store.
type RedisProfileCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisProfileCache{Client: client, TTL: ttl}
}

// NewRedisClient connects to Redis and verifies the connection. Returns nil
// when addr is empty or the server is unreachable, so the application can
// degrade to uncached profile reads.
func NewRedisClient(ctx context.Context, addr, password string, db int) *redis.Client {
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}

func profileKey(userID string) string {
	return "profile:" + userID
}

// Get returns the cached profile or (nil, nil) on a miss.
func (c *RedisProfileCache) Get(ctx context.Context, userID string) (*domain.User, error) {
	if c == nil || c.Client == nil {
		return nil, nil
	}

	if userID == "" {
		return nil, errors.New("profile cache: user id must not be empty")
	}

	raw, err := c.Client.Get(ctx, profileKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profile cache get: %w", err)
	}

	var u domain.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		// A corrupt entry behaves like a miss; the next Put repairs it.
		return nil, nil
	}
	return &u, nil
}

// Put stores a profile snapshot with the configured TTL.
func (c *RedisProfileCache) Put(ctx context.Context, user *domain.User) error {
	if c == nil || c.Client == nil {
		return nil
	}

	if user == nil || user.ID == "" {
		return errors.New("profile cache: user id must not be empty")
	}

	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("profile cache put: marshal: %w", err)
	}

	if err := c.Client.Set(ctx, profileKey(user.ID), raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("profile cache put: %w", err)
	}
	return nil
}

// Invalidate drops a cached snapshot, forcing the next read to the store.
func (c *RedisProfileCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil || c.Client == nil {
		return nil
	}

	if err := c.Client.Del(ctx, profileKey(userID)).Err(); err != nil {
		return fmt.Errorf("profile cache invalidate: %w", err)
	}
	return nil
}
