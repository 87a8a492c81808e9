// Package session owns the delivery-lifecycle state machine: the phase a
// batch of packages is in, the in-memory working sets, and the transitions
// that combine quota checks, store writes and optimizer calls.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/quota"
)

// ErrInvalidTransition is returned when an operation is invoked in a phase
// that does not support it, or against a package in the wrong status.
var ErrInvalidTransition = errors.New("invalid transition")

// Result describes the outcome of a state-machine operation.
//
// Quota and plan refusals are not errors: they arrive as a Denied decision
// with the phase left (or moved) accordingly. Notice carries non-fatal
// conditions the driver should see (optimizer fallback, empty extraction).
// FailedIDs lists packages that missed their route assignment when a bulk
// write partially failed; survivors keep their sequence numbers and gaps
// are deliberately not renumbered.
type Result struct {
	Phase     domain.Phase
	Denied    *quota.Decision
	Notice    string
	FailedIDs []string
}

// Machine is the delivery-lifecycle state machine for a single driver.
//
// Every exported method takes the internal mutex, so the reconciler
// goroutine and the request handlers can interleave safely. A command
// holds the lock for its whole duration, collaborator calls included; a
// concurrent tick simply waits. The presentation layer additionally
// serializes its own multi-call sequences so state reads compose into one
// consistent snapshot.
type Machine struct {
	mu sync.Mutex

	store     ports.PackageStore
	profiles  ports.ProfileStore
	optimizer ports.RouteOptimizer
	events    ports.EventPublisher

	newRouteID func() string
	now        func() time.Time

	phase    domain.Phase
	session  *ports.Session
	user     *domain.User
	estimate int

	packages  []*domain.Package
	route     *domain.Route
	stopIndex int
	working   []*domain.Package
}

// NewMachine wires the machine's collaborators. The event publisher may be
// nil, in which case lifecycle events are dropped.
func NewMachine(
	store ports.PackageStore,
	profiles ports.ProfileStore,
	optimizer ports.RouteOptimizer,
	events ports.EventPublisher,
) *Machine {
	return &Machine{
		store:      store,
		profiles:   profiles,
		optimizer:  optimizer,
		events:     events,
		newRouteID: uuid.NewString,
		now:        time.Now,
		phase:      domain.PhaseLoggedOut,
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() domain.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// User returns a copy of the in-memory user record, nil when logged out.
// A copy, because commands overwrite the record in place and the caller
// may inspect it outside the lock.
func (m *Machine) User() *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// Session returns the active identity session, nil when logged out.
func (m *Machine) Session() *ports.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Packages returns the in-memory pending working set.
func (m *Machine) Packages() []*domain.Package {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.packages
}

// Route returns the active route, nil when none is in progress.
func (m *Machine) Route() *domain.Route {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.route
}

// WorkingOrder returns the manual-ordering working copy.
func (m *Machine) WorkingOrder() []*domain.Package {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.working
}

// CurrentStop returns the package the driver is delivering next.
func (m *Machine) CurrentStop() (*domain.Package, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.route == nil {
		return nil, false
	}
	return m.route.CurrentStop()
}

// Estimate returns the driver's batch-size estimate.
func (m *Machine) Estimate() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.estimate
}

// Authenticate handles a successful sign-in: it loads (provisioning if
// necessary) the profile, discards any previous in-memory batch, and
// reconstructs an in-progress route from the store so a driver who closed
// the app mid-route resumes at the correct stop.
func (m *Machine) Authenticate(ctx context.Context, session *ports.Session) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if session == nil || session.UserID == "" {
		return nil, fmt.Errorf("authenticate: %w: session has no user id", ErrInvalidTransition)
	}

	user, err := m.loadOrProvisionProfile(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	m.session = session
	m.user = user
	m.clearBatchState()

	if !user.PlanActive {
		m.phase = domain.PhasePlanExpired
		return &Result{Phase: m.phase}, nil
	}

	if err := m.rebuildFromStore(ctx); err != nil {
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	return &Result{Phase: m.phase}, nil
}

// Logout drops the session and every piece of in-memory state.
func (m *Machine) Logout() *Result {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
	m.user = nil
	m.clearBatchState()
	m.phase = domain.PhaseLoggedOut
	return &Result{Phase: m.phase}
}

// SetBatchEstimate stores the driver's desired package count and moves to
// package capture. The quota check here is advisory: a denial keeps the
// phase and surfaces the remaining allowance, since the authoritative gate
// runs again right before route creation.
func (m *Machine) SetBatchEstimate(count int) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requirePhase("set batch estimate", domain.PhaseBatchSetup); err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, fmt.Errorf("set batch estimate: count must be positive, got %d", count)
	}

	decision := quota.CanRequestBatch(m.user, count)
	if !decision.Allowed {
		return &Result{Phase: m.phase, Denied: &decision}, nil
	}

	m.estimate = count
	m.phase = domain.PhasePackageCapture
	return &Result{Phase: m.phase}, nil
}

// CapturePackages persists extracted addresses as pending packages and
// appends them to the working set. Capture itself is never quota-gated;
// only route creation is.
func (m *Machine) CapturePackages(ctx context.Context, parsed []ports.ParsedAddress, kind domain.InputKind, rawInput string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requirePhase("capture packages", domain.PhasePackageCapture); err != nil {
		return nil, err
	}

	if len(parsed) == 0 {
		return &Result{Phase: m.phase, Notice: "no addresses recognized in the input"}, nil
	}

	drafts := make([]domain.PackageDraft, 0, len(parsed))
	for _, a := range parsed {
		full := a.FullAddress
		if full == "" {
			full = joinAddress(a)
		}
		drafts = append(drafts, domain.PackageDraft{
			OwnerID:        m.user.ID,
			FullAddress:    full,
			Street:         a.Street,
			Number:         a.Number,
			Neighborhood:   a.Neighborhood,
			Complement:     a.Complement,
			PostalCode:     a.PostalCode,
			City:           a.City,
			Region:         a.Region,
			RecipientName:  a.RecipientName,
			Phone:          a.Phone,
			SourceKind:     kind,
			SourceRawInput: rawInput,
		})
	}

	created, err := m.store.Create(ctx, drafts)
	if err != nil {
		return nil, fmt.Errorf("capture packages: %w", err)
	}

	m.packages = append(m.packages, created...)
	return &Result{Phase: m.phase}, nil
}

// RemovePackage deletes a pending package from the store and the working
// set. Packages already on a route cannot be removed.
func (m *Machine) RemovePackage(ctx context.Context, id string) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requirePhase("remove package", domain.PhasePackageCapture); err != nil {
		return nil, err
	}

	var target *domain.Package
	for _, p := range m.packages {
		if p.ID == id {
			target = p
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("remove package: %w: id %s is not in the current batch", ports.ErrNotFound, id)
	}
	if target.Status != domain.StatusPending {
		return nil, fmt.Errorf("remove package: %w: package %s is %s, only pending packages can be removed", ErrInvalidTransition, id, target.Status)
	}

	if err := m.store.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("remove package: %w", err)
	}

	kept := m.packages[:0]
	for _, p := range m.packages {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.packages = kept

	return &Result{Phase: m.phase}, nil
}

// CreateRouteAuto asks the optimizer for an ordering of the pending batch
// and creates the route from it. Optimizer failure or a degraded response
// falls back to identity order rather than blocking the driver.
func (m *Machine) CreateRouteAuto(ctx context.Context, origin domain.OriginHint) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requirePhase("create route", domain.PhasePackageCapture); err != nil {
		return nil, err
	}

	candidates := m.pendingValid()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("create route: %w: no pending packages to route", ErrInvalidTransition)
	}

	decision := quota.CanStartRoute(m.user, len(candidates))
	if !decision.Allowed {
		m.enterDeniedPhase(decision)
		return &Result{Phase: m.phase, Denied: &decision}, nil
	}

	notice := ""
	stops, err := m.optimizer.Optimize(ctx, candidates, origin)
	if err != nil {
		log.Printf("op=create_route optimizer_fallback=identity err=%v", err)
		stops = ports.IdentityOrder(candidates)
		notice = "route optimization unavailable, using capture order"
	}

	return m.createRoute(ctx, candidates, stops, "auto", notice)
}

// BeginManualOrdering moves to the manual-ordering phase with a working
// copy of the pending batch in its current order. No store writes happen
// until the order is confirmed.
func (m *Machine) BeginManualOrdering() (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requirePhase("begin manual ordering", domain.PhasePackageCapture); err != nil {
		return nil, err
	}

	candidates := m.pendingValid()
	if len(candidates) == 0 {
		return nil, fmt.Errorf("begin manual ordering: %w: no pending packages to route", ErrInvalidTransition)
	}

	decision := quota.CanStartRoute(m.user, len(candidates))
	if !decision.Allowed {
		m.enterDeniedPhase(decision)
		return &Result{Phase: m.phase, Denied: &decision}, nil
	}

	m.working = append([]*domain.Package(nil), candidates...)
	m.phase = domain.PhaseManualOrdering
	return &Result{Phase: m.phase}, nil
}

// MoveStop shifts a package one position up or down in the manual working
// copy. Pure in-memory reindex; nothing is persisted yet.
func (m *Machine) MoveStop(id string, up bool) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requirePhase("move stop", domain.PhaseManualOrdering); err != nil {
		return nil, err
	}

	idx := -1
	for i, p := range m.working {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("move stop: %w: id %s is not in the working order", ports.ErrNotFound, id)
	}

	swap := idx + 1
	if up {
		swap = idx - 1
	}
	if swap < 0 || swap >= len(m.working) {
		return &Result{Phase: m.phase}, nil
	}

	m.working[idx], m.working[swap] = m.working[swap], m.working[idx]
	return &Result{Phase: m.phase}, nil
}

// ConfirmManualOrder creates the route from the working copy's order.
func (m *Machine) ConfirmManualOrder(ctx context.Context) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requirePhase("confirm manual order", domain.PhaseManualOrdering); err != nil {
		return nil, err
	}

	if len(m.working) == 0 {
		return nil, fmt.Errorf("confirm manual order: %w: working order is empty", ErrInvalidTransition)
	}

	decision := quota.CanStartRoute(m.user, len(m.working))
	if !decision.Allowed {
		m.enterDeniedPhase(decision)
		return &Result{Phase: m.phase, Denied: &decision}, nil
	}

	return m.createRoute(ctx, m.working, ports.IdentityOrder(m.working), "manual", "")
}

// ResolveStop marks the current stop delivered, cancelled or undeliverable
// and advances the pointer to the next in-transit package. When none
// remains the route is complete.
func (m *Machine) ResolveStop(ctx context.Context, id string, status domain.Status) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requirePhase("resolve stop", domain.PhaseDelivering); err != nil {
		return nil, err
	}
	if !status.Terminal() {
		return nil, fmt.Errorf("resolve stop: %w: target status %s is not terminal", ErrInvalidTransition, status)
	}

	pkg, ok := m.route.FindStop(id)
	if !ok {
		return nil, fmt.Errorf("resolve stop: %w: id %s is not on the active route", ports.ErrNotFound, id)
	}
	if pkg.Status != domain.StatusInTransit {
		return nil, fmt.Errorf("resolve stop: %w: package %s is already %s", ErrInvalidTransition, id, pkg.Status)
	}

	updated, err := m.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, fmt.Errorf("resolve stop: %w", err)
	}
	pkg.Status = updated.Status
	pkg.DeliveryNotes = updated.DeliveryNotes

	m.publishStopResolved(ctx, pkg)

	if m.route.Finished() {
		m.phase = domain.PhaseCompleted
		m.publishRouteCompleted(ctx)
		return &Result{Phase: m.phase}, nil
	}

	idx, _ := m.route.CurrentStopIndex()
	m.stopIndex = idx
	return &Result{Phase: m.phase}, nil
}

// ClearBatch discards the in-memory batch, route, pointer and estimate,
// restarting the cycle.
func (m *Machine) ClearBatch() (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return nil, fmt.Errorf("clear batch: %w: not authenticated", ErrInvalidTransition)
	}

	m.clearBatchState()
	if m.user.PlanActive {
		m.phase = domain.PhaseBatchSetup
	} else {
		m.phase = domain.PhasePlanExpired
	}
	return &Result{Phase: m.phase}, nil
}

// AcknowledgeGate leaves the PlanExpired or QuotaLimitReached side-state
// after the underlying condition has been externally resolved. The fresh
// profile is fetched so a stale in-memory copy cannot unlock the gate.
func (m *Machine) AcknowledgeGate(ctx context.Context) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != domain.PhasePlanExpired && m.phase != domain.PhaseQuotaLimitReached {
		return nil, fmt.Errorf("acknowledge gate: %w: phase is %s", ErrInvalidTransition, m.phase)
	}

	fresh, err := m.profiles.GetProfile(ctx, m.user.ID)
	if err != nil {
		return nil, fmt.Errorf("acknowledge gate: %w", err)
	}
	m.user.MergeProfile(fresh)

	if !m.user.PlanActive {
		m.phase = domain.PhasePlanExpired
		return &Result{Phase: m.phase}, nil
	}
	if quota.RemainingAllowance(m.user) == 0 {
		m.phase = domain.PhaseQuotaLimitReached
		return &Result{Phase: m.phase}, nil
	}

	m.clearBatchState()
	m.phase = domain.PhaseBatchSetup
	return &Result{Phase: m.phase}, nil
}

// MergeProfile folds an authoritative profile snapshot into the in-memory
// user without touching packages, route or pointer state. Used by the
// reconciler's silent merge; a no-op when logged out.
func (m *Machine) MergeProfile(fresh *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil || fresh == nil || fresh.ID != m.user.ID {
		return
	}
	m.user.MergeProfile(fresh)
}

// createRoute persists the ordered assignments, applies quota consumption
// exactly once, and computes the next phase. Shared by the auto and manual
// paths.
func (m *Machine) createRoute(
	ctx context.Context,
	candidates []*domain.Package,
	stops []ports.OrderedStop,
	mode string,
	notice string,
) (*Result, error) {
	routeID := m.newRouteID()

	assignments := make([]ports.RouteAssignment, 0, len(stops))
	for _, s := range stops {
		assignments = append(assignments, ports.RouteAssignment{
			PackageID:      s.PackageID,
			SequenceNumber: s.SequenceNumber,
			RouteID:        routeID,
			Status:         domain.StatusInTransit,
		})
	}

	result, err := m.store.BulkAssignRoute(ctx, assignments)
	if err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}
	if len(result.Assigned) == 0 {
		// Nothing persisted: no route, no consumption, phase unchanged.
		return nil, fmt.Errorf("create route: no package accepted its assignment (%d failed)", len(result.Failed))
	}

	failedIDs := make([]string, 0, len(result.Failed))
	for _, f := range result.Failed {
		log.Printf("op=create_route route_id=%s assign_failed id=%s err=%v", routeID, f.PackageID, f.Err)
		failedIDs = append(failedIDs, f.PackageID)
	}

	route, err := domain.NewRoute(routeID, result.Assigned)
	if err != nil {
		return nil, fmt.Errorf("create route: %w", err)
	}

	// Consumption is applied exactly once, for the packages that actually
	// made it onto the route, and is permanent even if the route is later
	// cancelled.
	consumed := quota.ApplyConsumption(*m.user, len(result.Assigned))
	*m.user = consumed
	if _, err := m.profiles.UpsertProfile(ctx, m.user); err != nil {
		log.Printf("op=create_route route_id=%s persist_counters_failed err=%v", routeID, err)
	}

	m.route = route
	m.stopIndex = 0
	m.working = nil
	m.packages = m.withoutRouted(result.Assigned)

	m.publishRouteCreated(ctx, mode)

	switch {
	case !m.user.PlanActive:
		m.phase = domain.PhasePlanExpired
	case quota.RemainingAllowance(m.user) == 0:
		m.phase = domain.PhaseQuotaLimitReached
	default:
		m.phase = domain.PhaseDelivering
	}

	return &Result{Phase: m.phase, Notice: notice, FailedIDs: failedIDs}, nil
}

// rebuildFromStore reconstructs phase and working sets from persisted
// packages alone: in-transit packages grouped by the most recent route id
// resume the Delivering phase at the first unresolved stop.
func (m *Machine) rebuildFromStore(ctx context.Context) error {
	all, err := m.store.ListByOwner(ctx, m.user.ID)
	if err != nil {
		return fmt.Errorf("rebuild from store: %w", err)
	}

	byRoute := make(map[string][]*domain.Package)
	latestRoute := ""
	var latest time.Time
	for _, p := range all {
		if p.Status == domain.StatusPending {
			m.packages = append(m.packages, p)
			continue
		}
		if !p.OnActiveRoute() {
			continue
		}

		rid := *p.RouteID
		byRoute[rid] = append(byRoute[rid], p)
		if p.Status == domain.StatusInTransit && (latestRoute == "" || p.CreatedAt.After(latest)) {
			latestRoute = rid
			latest = p.CreatedAt
		}
	}

	if latestRoute == "" {
		m.phase = domain.PhaseBatchSetup
		return nil
	}

	stops := byRoute[latestRoute]
	sort.Slice(stops, func(i, j int) bool {
		return *stops[i].SequenceNumber < *stops[j].SequenceNumber
	})

	route, err := domain.NewRoute(latestRoute, stops)
	if err != nil {
		return fmt.Errorf("rebuild from store: %w", err)
	}

	m.route = route
	if idx, ok := route.CurrentStopIndex(); ok {
		m.stopIndex = idx
		m.phase = domain.PhaseDelivering
		return nil
	}

	// Every stop already terminal: nothing to resume.
	m.route = nil
	m.phase = domain.PhaseBatchSetup
	return nil
}

func (m *Machine) loadOrProvisionProfile(ctx context.Context, session *ports.Session) (*domain.User, error) {
	user, err := m.profiles.GetProfile(ctx, session.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	user, err = m.profiles.UpsertProfile(ctx, &domain.User{
		ID:         session.UserID,
		Email:      session.Email,
		PlanName:   domain.FreePlanName,
		DailyQuota: 10,
		PlanActive: true,
	})
	if err != nil {
		return nil, fmt.Errorf("provision profile: %w", err)
	}
	return user, nil
}

func (m *Machine) requirePhase(op string, want domain.Phase) error {
	if m.user == nil {
		return fmt.Errorf("%s: %w: not authenticated", op, ErrInvalidTransition)
	}
	if m.phase != want {
		return fmt.Errorf("%s: %w: phase is %s, want %s", op, ErrInvalidTransition, m.phase, want)
	}
	return nil
}

// pendingValid returns the portion of the working set eligible for routing.
func (m *Machine) pendingValid() []*domain.Package {
	out := make([]*domain.Package, 0, len(m.packages))
	for _, p := range m.packages {
		if p.Status == domain.StatusPending && p.FullAddress != "" {
			out = append(out, p)
		}
	}
	return out
}

func (m *Machine) withoutRouted(routed []*domain.Package) []*domain.Package {
	onRoute := make(map[string]struct{}, len(routed))
	for _, p := range routed {
		onRoute[p.ID] = struct{}{}
	}

	kept := make([]*domain.Package, 0, len(m.packages))
	for _, p := range m.packages {
		if _, ok := onRoute[p.ID]; !ok {
			kept = append(kept, p)
		}
	}
	return kept
}

func (m *Machine) clearBatchState() {
	m.estimate = 0
	m.packages = nil
	m.route = nil
	m.working = nil
	m.stopIndex = 0
}

func (m *Machine) enterDeniedPhase(d quota.Decision) {
	if d.Reason == quota.DenyPlanInactive {
		m.phase = domain.PhasePlanExpired
		return
	}
	m.phase = domain.PhaseQuotaLimitReached
}

func (m *Machine) publishRouteCreated(ctx context.Context, mode string) {
	if m.events == nil || m.route == nil {
		return
	}
	ev := ports.RouteCreatedEvent{
		RouteID:      m.route.ID,
		OwnerID:      m.user.ID,
		PackageCount: len(m.route.Stops),
		Mode:         mode,
		CreatedAt:    m.now().UTC().Format(time.RFC3339),
	}
	if err := m.events.PublishRouteCreated(ctx, ev); err != nil {
		log.Printf("op=publish_route_created route_id=%s err=%v", m.route.ID, err)
	}
}

func (m *Machine) publishStopResolved(ctx context.Context, pkg *domain.Package) {
	if m.events == nil || m.route == nil {
		return
	}
	ev := ports.StopResolvedEvent{
		RouteID:    m.route.ID,
		OwnerID:    m.user.ID,
		PackageID:  pkg.ID,
		Status:     string(pkg.Status),
		ResolvedAt: m.now().UTC().Format(time.RFC3339),
	}
	if err := m.events.PublishStopResolved(ctx, ev); err != nil {
		log.Printf("op=publish_stop_resolved id=%s err=%v", pkg.ID, err)
	}
}

func (m *Machine) publishRouteCompleted(ctx context.Context) {
	if m.events == nil || m.route == nil {
		return
	}

	var delivered, cancelled, failed int
	for _, p := range m.route.Stops {
		switch p.Status {
		case domain.StatusDelivered:
			delivered++
		case domain.StatusCancelled:
			cancelled++
		case domain.StatusUndeliverable:
			failed++
		}
	}

	ev := ports.RouteCompletedEvent{
		RouteID:     m.route.ID,
		OwnerID:     m.user.ID,
		Delivered:   delivered,
		Cancelled:   cancelled,
		Failed:      failed,
		CompletedAt: m.now().UTC().Format(time.RFC3339),
	}
	if err := m.events.PublishRouteCompleted(ctx, ev); err != nil {
		log.Printf("op=publish_route_completed route_id=%s err=%v", m.route.ID, err)
	}
}

func joinAddress(a ports.ParsedAddress) string {
	parts := make([]string, 0, 4)
	if a.Street != "" {
		s := a.Street
		if a.Number != "" {
			s += ", " + a.Number
		}
		parts = append(parts, s)
	}
	if a.Neighborhood != "" {
		parts = append(parts, a.Neighborhood)
	}
	if a.City != "" {
		parts = append(parts, a.City)
	}
	if a.PostalCode != "" {
		parts = append(parts, a.PostalCode)
	}

	out := ""
	for i, p := range parts {
		if i > 0 {
			out += " - "
		}
		out += p
	}
	return out
}
