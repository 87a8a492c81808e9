package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
)

func testCache(t *testing.T) (*RedisProfileCache, *miniredis.Miniredis) {
	t.Helper()

	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisProfileCache(client, time.Minute), srv
}

func TestPutGetRoundTrip(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	u := &domain.User{
		ID:         "driver-1",
		Email:      "driver@example.com",
		PlanName:   "Pro",
		DailyQuota: 50,
		PlanActive: true,
	}
	if err := c.Put(ctx, u); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := c.Get(ctx, "driver-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil {
		t.Fatal("expected hit")
	}
	if got.PlanName != "Pro" || got.DailyQuota != 50 || !got.PlanActive {
		t.Fatalf("round trip lost fields: %+v", got)
	}
}

func TestGetMissReturnsNil(t *testing.T) {
	c, _ := testCache(t)

	got, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("expected miss, got %+v", got)
	}
}

func TestCorruptEntryBehavesLikeMiss(t *testing.T) {
	c, srv := testCache(t)

	srv.Set("profile:driver-1", "{not json")

	got, err := c.Get(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatalf("corrupt entry returned a profile: %+v", got)
	}
}

func TestEntryExpires(t *testing.T) {
	c, srv := testCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, &domain.User{ID: "driver-1"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	srv.FastForward(2 * time.Minute)

	got, err := c.Get(ctx, "driver-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("entry survived its TTL")
	}
}

func TestInvalidate(t *testing.T) {
	c, _ := testCache(t)
	ctx := context.Background()

	if err := c.Put(ctx, &domain.User{ID: "driver-1"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := c.Invalidate(ctx, "driver-1"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}

	got, err := c.Get(ctx, "driver-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Fatal("entry survived invalidation")
	}
}

func TestNilCacheIsAlwaysAMiss(t *testing.T) {
	var c *RedisProfileCache
	ctx := context.Background()

	if got, err := c.Get(ctx, "driver-1"); err != nil || got != nil {
		t.Fatalf("nil cache get = %v, %v", got, err)
	}
	if err := c.Put(ctx, &domain.User{ID: "driver-1"}); err != nil {
		t.Fatalf("nil cache put: %v", err)
	}
	if err := c.Invalidate(ctx, "driver-1"); err != nil {
		t.Fatalf("nil cache invalidate: %v", err)
	}
}
