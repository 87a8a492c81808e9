package session

import (
	"context"
	"log"
	"time"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/cache"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

// Reconciler periodically pulls the authoritative user/plan record and
// silently merges it into the machine's in-memory user. It never touches
// package, route or stop-pointer state, and the machine serializes its
// calls internally, so a tick can land while an operation is in flight.
//
// The background loop is tied to a context and must be stopped on logout;
// Run returns when the context is cancelled.
type Reconciler struct {
	Machine  *Machine
	Profiles ports.ProfileStore
	Cache    *cache.RedisProfileCache
	Interval time.Duration
}

func NewReconciler(m *Machine, profiles ports.ProfileStore, profileCache *cache.RedisProfileCache, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Reconciler{
		Machine:  m,
		Profiles: profiles,
		Cache:    profileCache,
		Interval: interval,
	}
}

// Run ticks until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick performs one reconciliation pass. Exposed separately so tests and
// the HTTP shell can trigger an immediate refresh.
func (r *Reconciler) Tick(ctx context.Context) {
	user := r.Machine.User()
	if user == nil || r.Machine.Phase() == domain.PhaseAuthenticating {
		return
	}

	fresh, err := r.fetchProfile(ctx, user.ID)
	if err != nil {
		log.Printf("op=reconcile user_id=%s err=%v", user.ID, err)
		return
	}

	if !profileChanged(user, fresh) {
		return
	}

	r.Machine.MergeProfile(fresh)
	log.Printf("op=reconcile user_id=%s merged=true plan=%s active=%t", user.ID, fresh.PlanName, fresh.PlanActive)
}

// fetchProfile consults the snapshot cache first, falling back to the
// store and refreshing the cache on a miss.
func (r *Reconciler) fetchProfile(ctx context.Context, userID string) (*domain.User, error) {
	if cached, err := r.Cache.Get(ctx, userID); err == nil && cached != nil {
		return cached, nil
	}

	fresh, err := r.Profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := r.Cache.Put(ctx, fresh); err != nil {
		log.Printf("op=reconcile cache_put_failed user_id=%s err=%v", userID, err)
	}
	return fresh, nil
}

// profileChanged compares only the fields the silent merge would copy.
func profileChanged(current, fresh *domain.User) bool {
	return current.PlanName != fresh.PlanName ||
		current.DailyQuota != fresh.DailyQuota ||
		current.DeliveriesToday != fresh.DeliveriesToday ||
		current.FreeDeliveriesUsed != fresh.FreeDeliveriesUsed ||
		current.PlanActive != fresh.PlanActive ||
		current.VoiceCreditBalance != fresh.VoiceCreditBalance ||
		current.Name != fresh.Name ||
		current.DriverName != fresh.DriverName ||
		current.DriverPhone != fresh.DriverPhone ||
		current.NavigationPreference != fresh.NavigationPreference ||
		current.NotificationPreference != fresh.NotificationPreference
}
