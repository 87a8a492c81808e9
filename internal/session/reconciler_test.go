package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/cache"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/optimizer"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
)

func TestTickMergesProfileWithoutTouchingRoute(t *testing.T) {
	store := newFakeStore()
	profiles := newFakeProfiles(freeUser(10, 0))
	m := NewMachine(store, profiles, optimizer.NewMockRouteOptimizer(nil), nil)

	capturePhase(t, m, 2)
	if _, err := m.CreateRouteAuto(context.Background(), domain.OriginHint{}); err != nil {
		t.Fatalf("create route: %v", err)
	}

	routeBefore := m.Route()
	stop, _ := m.CurrentStop()

	// Plan changed server-side while the driver is mid-route.
	upgraded := profiles.users["driver-1"]
	upgraded.PlanName = "Pro"
	upgraded.DailyQuota = 50
	profiles.users["driver-1"] = upgraded

	r := NewReconciler(m, profiles, nil, time.Minute)
	r.Tick(context.Background())

	if m.User().PlanName != "Pro" || m.User().DailyQuota != 50 {
		t.Fatalf("profile not merged: %+v", m.User())
	}
	if m.Route() != routeBefore {
		t.Fatal("route replaced by reconciler tick")
	}
	if cur, _ := m.CurrentStop(); cur != stop {
		t.Fatal("stop pointer moved by reconciler tick")
	}
	if m.Phase() != domain.PhaseDelivering {
		t.Fatalf("phase = %s, want delivering", m.Phase())
	}
}

func TestTickNoopWhenLoggedOut(t *testing.T) {
	m := NewMachine(newFakeStore(), newFakeProfiles(), optimizer.NewMockRouteOptimizer(nil), nil)
	r := NewReconciler(m, m.profiles, nil, time.Minute)

	r.Tick(context.Background())

	if m.User() != nil || m.Phase() != domain.PhaseLoggedOut {
		t.Fatal("tick changed logged-out state")
	}
}

func TestTickPrefersCachedSnapshot(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	profileCache := cache.NewRedisProfileCache(client, time.Minute)

	store := newFakeStore()
	profiles := newFakeProfiles(freeUser(10, 0))
	m := NewMachine(store, profiles, optimizer.NewMockRouteOptimizer(nil), nil)
	if _, err := m.Authenticate(context.Background(), driverSession()); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	// The cache holds a newer snapshot than the store.
	cached := freeUser(10, 0)
	cached.PlanName = "Pro"
	cached.DailyQuota = 50
	if err := profileCache.Put(context.Background(), &cached); err != nil {
		t.Fatalf("cache put: %v", err)
	}

	r := NewReconciler(m, profiles, profileCache, time.Minute)
	r.Tick(context.Background())

	if m.User().PlanName != "Pro" {
		t.Fatalf("plan = %s, want cached Pro snapshot", m.User().PlanName)
	}
}

// The reconciler runs on its own goroutine, so ticks must be safe while a
// full delivery cycle mutates the machine.
func TestTickDuringDeliveryCycleKeepsStateConsistent(t *testing.T) {
	store := newFakeStore()
	profiles := newFakeProfiles(freeUser(10, 0))
	m := NewMachine(store, profiles, optimizer.NewMockRouteOptimizer(nil), nil)
	r := NewReconciler(m, profiles, nil, time.Minute)

	ctx := context.Background()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			r.Tick(ctx)
		}
	}()

	capturePhase(t, m, 3)
	if _, err := m.CreateRouteAuto(ctx, domain.OriginHint{}); err != nil {
		t.Fatalf("create route: %v", err)
	}
	for {
		stop, ok := m.CurrentStop()
		if !ok {
			break
		}
		if _, err := m.ResolveStop(ctx, stop.ID, domain.StatusDelivered); err != nil {
			t.Fatalf("resolve %s: %v", stop.ID, err)
		}
	}
	<-done

	if m.Phase() != domain.PhaseCompleted {
		t.Fatalf("phase = %s, want completed", m.Phase())
	}
	if got := profiles.users["driver-1"].FreeDeliveriesUsed; got != 3 {
		t.Fatalf("persisted counter = %d, want 3", got)
	}
	for _, p := range m.Route().Stops {
		if p.Status != domain.StatusDelivered {
			t.Fatalf("stop %s = %s, want delivered", p.ID, p.Status)
		}
	}
}

// Counter upserts go through the cache, so a snapshot taken before route
// creation must never merge pre-consumption values back into the machine.
func TestTickDoesNotRollBackConsumedQuota(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	profileCache := cache.NewRedisProfileCache(client, time.Minute)

	store := newFakeStore()
	profiles := newFakeProfiles(freeUser(10, 0))
	m := NewMachine(
		store,
		cache.NewWriteThroughProfileStore(profiles, profileCache),
		optimizer.NewMockRouteOptimizer(nil),
		nil,
	)
	r := NewReconciler(m, profiles, profileCache, time.Minute)

	ctx := context.Background()
	capturePhase(t, m, 3)
	r.Tick(ctx) // snapshot with zero consumption is now cached

	if _, err := m.CreateRouteAuto(ctx, domain.OriginHint{}); err != nil {
		t.Fatalf("create route: %v", err)
	}
	if got := m.User().FreeDeliveriesUsed; got != 3 {
		t.Fatalf("consumed counter = %d, want 3", got)
	}

	r.Tick(ctx)

	if got := m.User().FreeDeliveriesUsed; got != 3 {
		t.Fatalf("counter after tick = %d, want 3 (stale snapshot merged back)", got)
	}
	cached, err := profileCache.Get(ctx, "driver-1")
	if err != nil {
		t.Fatalf("cache get: %v", err)
	}
	if cached == nil || cached.FreeDeliveriesUsed != 3 {
		t.Fatalf("cached snapshot = %+v, want consumed counter 3", cached)
	}
}

func TestTickFillsCacheOnMiss(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	profileCache := cache.NewRedisProfileCache(client, time.Minute)

	store := newFakeStore()
	seed := freeUser(10, 0)
	seed.PlanName = "Pro"
	profiles := newFakeProfiles(seed)
	m := NewMachine(store, profiles, optimizer.NewMockRouteOptimizer(nil), nil)
	if _, err := m.Authenticate(context.Background(), driverSession()); err != nil {
		t.Fatalf("authenticate: %v", err)
	}

	r := NewReconciler(m, profiles, profileCache, time.Minute)
	r.Tick(context.Background())

	got, err := profileCache.Get(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("cache get: %v", err)
	}
	if got == nil || got.PlanName != "Pro" {
		t.Fatalf("cache not refreshed after miss: %+v", got)
	}
}
