// Package quota decides whether a driver's plan allows a delivery batch.
// All functions are pure; denials are decision values, never errors.
package quota

import "github.com/glaubern8n01/rotaspeed-unificado/internal/domain"

// DenyReason classifies why a quota check refused a request.
type DenyReason string

const (
	DenyPlanInactive  DenyReason = "plan_inactive"
	DenyQuotaExceeded DenyReason = "quota_exceeded"
)

// Decision is the outcome of a quota check. Remaining carries the allowed
// remainder for user messaging when the reason is quota exhaustion.
type Decision struct {
	Allowed   bool
	Reason    DenyReason
	Remaining int
}

func allow(remaining int) Decision {
	return Decision{Allowed: true, Remaining: remaining}
}

func deny(reason DenyReason, remaining int) Decision {
	return Decision{Allowed: false, Reason: reason, Remaining: remaining}
}

// RemainingAllowance returns how many more deliveries the plan permits.
// Never negative; zero when the daily quota itself is zero.
func RemainingAllowance(u *domain.User) int {
	used := u.DeliveriesToday
	if u.FreePlan() {
		used = u.FreeDeliveriesUsed
	}

	rem := u.DailyQuota - used
	if rem < 0 {
		return 0
	}
	return rem
}

// CanRequestBatch checks the driver's batch-size estimate against the plan.
// This gate is advisory; CanStartRoute is the authoritative one, evaluated
// immediately before a route is created.
func CanRequestBatch(u *domain.User, requested int) Decision {
	if !u.PlanActive {
		return deny(DenyPlanInactive, 0)
	}

	rem := RemainingAllowance(u)
	if requested > rem {
		return deny(DenyQuotaExceeded, rem)
	}
	return allow(rem)
}

// CanStartRoute gates route creation against the count of valid pending
// packages. Same rule as CanRequestBatch; the distinction is the moment of
// evaluation, since packages may be added or removed after setup.
func CanStartRoute(u *domain.User, candidates int) Decision {
	return CanRequestBatch(u, candidates)
}

// ApplyConsumption increments the plan counter by the number of packages
// placed into a freshly created route. The free-plan counter is capped at
// the daily quota. Called exactly once per successful route creation and
// never on a failed one.
func ApplyConsumption(u domain.User, consumed int) domain.User {
	if consumed <= 0 {
		return u
	}

	if u.FreePlan() {
		u.FreeDeliveriesUsed += consumed
		if u.FreeDeliveriesUsed > u.DailyQuota {
			u.FreeDeliveriesUsed = u.DailyQuota
		}
		return u
	}

	u.DeliveriesToday += consumed
	return u
}
