package cache

import (
	"context"
	"log"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

// WriteThroughProfileStore wraps a ProfileStore and keeps the Redis
// snapshot in step with it: every successful read or write refreshes the
// cached copy, so counter updates made here are never rolled back by a
// reader that prefers the cache.
//
// Reads always hit the inner store; the cache is a sink, not a source.
// Cache failures are logged and swallowed, with an Invalidate attempt so
// a stale snapshot cannot outlive a failed refresh.
type WriteThroughProfileStore struct {
	Inner ports.ProfileStore
	Cache *RedisProfileCache
}

func NewWriteThroughProfileStore(inner ports.ProfileStore, c *RedisProfileCache) *WriteThroughProfileStore {
	return &WriteThroughProfileStore{Inner: inner, Cache: c}
}

func (s *WriteThroughProfileStore) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.Inner.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, user)
	return user, nil
}

func (s *WriteThroughProfileStore) UpsertProfile(ctx context.Context, user *domain.User) (*domain.User, error) {
	stored, err := s.Inner.UpsertProfile(ctx, user)
	if err != nil {
		return nil, err
	}
	s.refresh(ctx, stored)
	return stored, nil
}

func (s *WriteThroughProfileStore) refresh(ctx context.Context, user *domain.User) {
	if err := s.Cache.Put(ctx, user); err != nil {
		log.Printf("op=profile_cache_refresh user_id=%s err=%v", user.ID, err)
		if err := s.Cache.Invalidate(ctx, user.ID); err != nil {
			log.Printf("op=profile_cache_invalidate user_id=%s err=%v", user.ID, err)
		}
	}
}
