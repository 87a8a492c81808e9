package cache

import (
	"context"
	"testing"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

// memProfiles is a minimal in-memory ProfileStore for decorator tests.
type memProfiles struct {
	users map[string]domain.User
}

func (m *memProfiles) GetProfile(_ context.Context, userID string) (*domain.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (m *memProfiles) UpsertProfile(_ context.Context, user *domain.User) (*domain.User, error) {
	m.users[user.ID] = *user
	copied := *user
	return &copied, nil
}

func TestUpsertRefreshesCachedSnapshot(t *testing.T) {
	c, _ := testCache(t)
	inner := &memProfiles{users: map[string]domain.User{}}
	store := NewWriteThroughProfileStore(inner, c)
	ctx := context.Background()

	if err := c.Put(ctx, &domain.User{ID: "driver-1", FreeDeliveriesUsed: 0}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	if _, err := store.UpsertProfile(ctx, &domain.User{ID: "driver-1", FreeDeliveriesUsed: 3}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := c.Get(ctx, "driver-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.FreeDeliveriesUsed != 3 {
		t.Fatalf("cached snapshot = %+v, want counter 3", got)
	}
}

func TestGetFillsCacheFromStore(t *testing.T) {
	c, _ := testCache(t)
	inner := &memProfiles{users: map[string]domain.User{
		"driver-1": {ID: "driver-1", PlanName: "Pro"},
	}}
	store := NewWriteThroughProfileStore(inner, c)
	ctx := context.Background()

	u, err := store.GetProfile(ctx, "driver-1")
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if u.PlanName != "Pro" {
		t.Fatalf("plan = %s, want Pro", u.PlanName)
	}

	cached, err := c.Get(ctx, "driver-1")
	if err != nil {
		t.Fatalf("cache get: %v", err)
	}
	if cached == nil || cached.PlanName != "Pro" {
		t.Fatalf("cache not filled: %+v", cached)
	}
}

func TestGetMissDoesNotTouchCache(t *testing.T) {
	c, _ := testCache(t)
	store := NewWriteThroughProfileStore(&memProfiles{users: map[string]domain.User{}}, c)

	if _, err := store.GetProfile(context.Background(), "absent"); err == nil {
		t.Fatal("expected not-found error")
	}

	got, err := c.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("cache get: %v", err)
	}
	if got != nil {
		t.Fatalf("miss cached a profile: %+v", got)
	}
}
