package domain

import (
	"fmt"
	"sort"
)

// Route is the ordered working set of packages sharing one route id.
//
// It is not a standalone persisted entity: the authoritative record is the
// set of packages carrying the same RouteID, ordered by SequenceNumber.
// Sequence numbers within a route start at 1 and are assigned exactly once;
// gaps may appear when some assignments fail to persist and are deliberately
// not renumbered.
type Route struct {
	ID    string
	Stops []*Package
}

// NewRoute builds a route from packages already carrying sequence numbers,
// sorted ascending. Packages without a sequence number are rejected.
func NewRoute(id string, pkgs []*Package) (*Route, error) {
	stops := make([]*Package, 0, len(pkgs))
	for _, p := range pkgs {
		if p.SequenceNumber == nil {
			return nil, fmt.Errorf("new route: package %s has no sequence number", p.ID)
		}
		stops = append(stops, p)
	}

	sort.Slice(stops, func(i, j int) bool {
		return *stops[i].SequenceNumber < *stops[j].SequenceNumber
	})

	seen := make(map[int]struct{}, len(stops))
	for _, p := range stops {
		n := *p.SequenceNumber
		if n < 1 {
			return nil, fmt.Errorf("new route: package %s has sequence number %d", p.ID, n)
		}
		if _, dup := seen[n]; dup {
			return nil, fmt.Errorf("new route: duplicate sequence number %d", n)
		}
		seen[n] = struct{}{}
	}

	return &Route{ID: id, Stops: stops}, nil
}

// CurrentStopIndex returns the index of the current stop: the lowest-sequence
// package whose status is still InTransit. The second return value is false
// when every stop is terminal (the route is finished) or the route is empty.
func (r *Route) CurrentStopIndex() (int, bool) {
	for i, p := range r.Stops {
		if p.Status == StatusInTransit {
			return i, true
		}
	}
	return 0, false
}

// CurrentStop returns the package the driver is actively delivering next.
func (r *Route) CurrentStop() (*Package, bool) {
	i, ok := r.CurrentStopIndex()
	if !ok {
		return nil, false
	}
	return r.Stops[i], true
}

// Finished reports whether every package in the route has a terminal status.
func (r *Route) Finished() bool {
	for _, p := range r.Stops {
		if !p.Status.Terminal() {
			return false
		}
	}
	return len(r.Stops) > 0
}

// FindStop returns the stop with the given package id.
func (r *Route) FindStop(id string) (*Package, bool) {
	for _, p := range r.Stops {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}
