package ports

import "context"

// RouteCreatedEvent is published when a batch of packages becomes a route.
type RouteCreatedEvent struct {
	RouteID      string `json:"route_id"`
	OwnerID      string `json:"owner_id"`
	PackageCount int    `json:"package_count"`
	Mode         string `json:"mode"`
	CreatedAt    string `json:"created_at"`
}

// StopResolvedEvent is published when the driver resolves a stop.
type StopResolvedEvent struct {
	RouteID    string `json:"route_id"`
	OwnerID    string `json:"owner_id"`
	PackageID  string `json:"package_id"`
	Status     string `json:"status"`
	ResolvedAt string `json:"resolved_at"`
}

// RouteCompletedEvent is published when every stop of a route is terminal.
type RouteCompletedEvent struct {
	RouteID     string `json:"route_id"`
	OwnerID     string `json:"owner_id"`
	Delivered   int    `json:"delivered"`
	Cancelled   int    `json:"cancelled"`
	Failed      int    `json:"failed"`
	CompletedAt string `json:"completed_at"`
}

// Port: best-effort publisher for route lifecycle events. Publish failures
// are surfaced as errors so callers can log them, but they must never fail
// the operation that produced the event.
type EventPublisher interface {
	PublishRouteCreated(ctx context.Context, ev RouteCreatedEvent) error
	PublishStopResolved(ctx context.Context, ev StopResolvedEvent) error
	PublishRouteCompleted(ctx context.Context, ev RouteCompletedEvent) error
}
