package ports

import (
	"context"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
)

// OrderedStop is one entry of an optimizer response: a package id and its
// 1-based position in the computed route.
type OrderedStop struct {
	PackageID      string
	SequenceNumber int
}

// Port: the external permutation-computing collaborator.
//
// A successful response contains exactly one entry per input package, with
// sequence numbers forming a dense 1..N order. Callers must treat a
// mismatched count as a degraded response and fall back to identity order.
type RouteOptimizer interface {
	Optimize(ctx context.Context, packages []*domain.Package, origin domain.OriginHint) ([]OrderedStop, error)
}

// IdentityOrder is the fallback permutation: packages in their given order,
// numbered from 1. Used when the optimizer fails or returns a degraded
// response, since a usable unoptimized route beats no route.
func IdentityOrder(packages []*domain.Package) []OrderedStop {
	stops := make([]OrderedStop, 0, len(packages))
	for i, p := range packages {
		stops = append(stops, OrderedStop{PackageID: p.ID, SequenceNumber: i + 1})
	}
	return stops
}
