package domain

// Phase is the single enum value describing what the presentation layer
// should show next.
type Phase string

const (
	PhaseLoggedOut         Phase = "logged_out"
	PhaseAuthenticating    Phase = "authenticating"
	PhaseBatchSetup        Phase = "batch_setup"
	PhasePackageCapture    Phase = "package_capture"
	PhaseAutoOptimizing    Phase = "auto_optimizing"
	PhaseManualOrdering    Phase = "manual_ordering"
	PhaseDelivering        Phase = "delivering"
	PhaseCompleted         Phase = "completed"
	PhasePlanExpired       Phase = "plan_expired"
	PhaseQuotaLimitReached Phase = "quota_limit_reached"
)
