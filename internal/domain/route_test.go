package domain

import "testing"

func seq(n int) *int { return &n }

func stop(id string, n int, status Status) *Package {
	return &Package{ID: id, Status: status, SequenceNumber: seq(n)}
}

func TestNewRouteSortsBySequence(t *testing.T) {
	r, err := NewRoute("r1", []*Package{
		stop("c", 3, StatusInTransit),
		stop("a", 1, StatusInTransit),
		stop("b", 2, StatusInTransit),
	})
	if err != nil {
		t.Fatalf("new route: %v", err)
	}

	want := []string{"a", "b", "c"}
	for i, id := range want {
		if r.Stops[i].ID != id {
			t.Fatalf("stop %d = %s, want %s", i, r.Stops[i].ID, id)
		}
	}
}

func TestNewRouteRejectsBadSequences(t *testing.T) {
	if _, err := NewRoute("r1", []*Package{{ID: "a", Status: StatusInTransit}}); err == nil {
		t.Fatal("expected error for missing sequence number")
	}
	if _, err := NewRoute("r1", []*Package{stop("a", 0, StatusInTransit)}); err == nil {
		t.Fatal("expected error for sequence number below 1")
	}
	if _, err := NewRoute("r1", []*Package{
		stop("a", 1, StatusInTransit),
		stop("b", 1, StatusInTransit),
	}); err == nil {
		t.Fatal("expected error for duplicate sequence number")
	}
}

func TestCurrentStopIsLowestInTransit(t *testing.T) {
	r, err := NewRoute("r1", []*Package{
		stop("a", 1, StatusDelivered),
		stop("b", 2, StatusCancelled),
		stop("c", 3, StatusInTransit),
		stop("d", 4, StatusInTransit),
	})
	if err != nil {
		t.Fatalf("new route: %v", err)
	}

	p, ok := r.CurrentStop()
	if !ok || p.ID != "c" {
		t.Fatalf("current stop = %v, want c", p)
	}
	if r.Finished() {
		t.Fatal("route reported finished with in-transit stops")
	}
}

func TestCurrentStopSurvivesSequenceGaps(t *testing.T) {
	// Gap at 2: a failed assignment never renumbers survivors.
	r, err := NewRoute("r1", []*Package{
		stop("a", 1, StatusDelivered),
		stop("c", 3, StatusInTransit),
	})
	if err != nil {
		t.Fatalf("new route: %v", err)
	}

	p, ok := r.CurrentStop()
	if !ok || p.ID != "c" {
		t.Fatalf("current stop = %v, want c", p)
	}
}

func TestFinishedRequiresAllTerminal(t *testing.T) {
	r, err := NewRoute("r1", []*Package{
		stop("a", 1, StatusDelivered),
		stop("b", 2, StatusUndeliverable),
	})
	if err != nil {
		t.Fatalf("new route: %v", err)
	}

	if !r.Finished() {
		t.Fatal("expected finished")
	}
	if _, ok := r.CurrentStop(); ok {
		t.Fatal("finished route still reports a current stop")
	}

	empty := &Route{ID: "r2"}
	if empty.Finished() {
		t.Fatal("empty route must not report finished")
	}
}

func TestStatusStoredRoundTrip(t *testing.T) {
	cases := []struct {
		status Status
		stored string
	}{
		{StatusPending, "pendente"},
		{StatusInTransit, "em_rota"},
		{StatusDelivered, "entregue"},
		{StatusCancelled, "cancelada"},
		{StatusUndeliverable, "nao_entregue"},
	}

	for _, tc := range cases {
		if got := StoredStatus(tc.status); got != tc.stored {
			t.Fatalf("%s stored as %s, want %s", tc.status, got, tc.stored)
		}
		if back := StatusFromStored(tc.stored); back != tc.status {
			t.Fatalf("stored %s maps to %s, want %s", tc.stored, back, tc.status)
		}
	}

	// Client-only statuses persist as pending; unknown stored values read
	// back as pending instead of failing the row.
	if got := StoredStatus(StatusParsed); got != "pendente" {
		t.Fatalf("parsed stored as %s, want pendente", got)
	}
	if got := StatusFromStored("garbage"); got != StatusPending {
		t.Fatalf("unknown stored status maps to %s, want pending", got)
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminal := map[Status]bool{
		StatusPending:       false,
		StatusInTransit:     false,
		StatusDelivered:     true,
		StatusCancelled:     true,
		StatusUndeliverable: true,
	}
	for s, want := range terminal {
		if s.Terminal() != want {
			t.Fatalf("%s.Terminal() = %v, want %v", s, s.Terminal(), want)
		}
	}
}
