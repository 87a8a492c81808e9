package domain

import "time"

// FreePlanName is the plan assigned to newly provisioned profiles.
const FreePlanName = "Grátis"

// User is the driver's profile and plan state.
//
// For the free plan the allowance is governed by FreeDeliveriesUsed against
// DailyQuota (a running counter, not reset daily); for paid plans by
// DeliveriesToday against DailyQuota, reset by an external daily job.
type User struct {
	ID                 string
	Email              string
	Name               string
	PlanName           string
	DailyQuota         int
	DeliveriesToday    int
	FreeDeliveriesUsed int
	PlanActive         bool
	VoiceCreditBalance int

	DriverName             string
	DriverPhone            string
	NavigationPreference   string
	NotificationPreference string

	UpdatedAt time.Time
}

// FreePlan reports whether the user's allowance is tracked by the free
// lifetime counter.
func (u *User) FreePlan() bool {
	return u.PlanName == FreePlanName || u.PlanName == "" || u.PlanName == "free"
}

// MergeProfile copies the authoritative profile fields from src without
// touching anything else. Used by the reconciler's silent merge.
func (u *User) MergeProfile(src *User) {
	u.Name = src.Name
	u.PlanName = src.PlanName
	u.DailyQuota = src.DailyQuota
	u.DeliveriesToday = src.DeliveriesToday
	u.FreeDeliveriesUsed = src.FreeDeliveriesUsed
	u.PlanActive = src.PlanActive
	u.VoiceCreditBalance = src.VoiceCreditBalance
	u.DriverName = src.DriverName
	u.DriverPhone = src.DriverPhone
	u.NavigationPreference = src.NavigationPreference
	u.NotificationPreference = src.NotificationPreference
	u.UpdatedAt = src.UpdatedAt
}
