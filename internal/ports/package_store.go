package ports

import (
	"context"
	"errors"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
)

// ErrNotFound is returned when a record does not exist in the store.
var ErrNotFound = errors.New("record not found")

// RouteAssignment applies a route membership to one package.
type RouteAssignment struct {
	PackageID      string
	SequenceNumber int
	RouteID        string
	Status         domain.Status
}

// AssignFailure reports one package that failed to receive its assignment.
type AssignFailure struct {
	PackageID string
	Err       error
}

// BulkAssignResult is the per-id outcome of a bulk route assignment.
// Assigned holds the packages that were persisted with their new route
// fields; Failed lists the rest. Partial failure is not an error at this
// boundary, the caller decides how to proceed.
type BulkAssignResult struct {
	Assigned []*domain.Package
	Failed   []AssignFailure
}

// Port: persistence boundary for package (delivery) records.
type PackageStore interface {
	// Persist drafts in pending status and return full records with
	// store-assigned ids. All-or-nothing per call.
	Create(ctx context.Context, drafts []domain.PackageDraft) ([]*domain.Package, error)

	// Retrieve all non-deleted packages for an owner, any status.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Package, error)

	// Update a single package's status. Transition legality is enforced
	// by the caller; the store only persists.
	UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Package, error)

	// Apply sequence number, route id and status to many packages,
	// reporting per-id failures instead of aborting the whole batch.
	BulkAssignRoute(ctx context.Context, assignments []RouteAssignment) (*BulkAssignResult, error)

	// Remove a package. Returns ErrNotFound when it does not exist.
	Delete(ctx context.Context, id string) error
}
