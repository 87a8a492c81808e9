package optimizer

import (
	"context"
	"errors"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

// MockRouteOptimizer returns a fixed permutation for tests.
// When Order is empty it echoes identity order; when Err is set every call
// fails with it.
type MockRouteOptimizer struct {
	Order []string
	Err   error
	Calls int
}

func NewMockRouteOptimizer(order []string) *MockRouteOptimizer {
	return &MockRouteOptimizer{Order: order}
}

func (m *MockRouteOptimizer) Optimize(
	_ context.Context,
	packages []*domain.Package,
	_ domain.OriginHint,
) ([]ports.OrderedStop, error) {
	m.Calls++

	if m.Err != nil {
		return nil, m.Err
	}

	if len(m.Order) == 0 {
		return ports.IdentityOrder(packages), nil
	}

	if len(m.Order) != len(packages) {
		return nil, errors.New("mock optimizer: order length does not match package count")
	}

	stops := make([]ports.OrderedStop, 0, len(m.Order))
	for i, id := range m.Order {
		stops = append(stops, ports.OrderedStop{PackageID: id, SequenceNumber: i + 1})
	}
	return stops, nil
}
