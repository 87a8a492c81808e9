package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/extractor"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/optimizer"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/repositories"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/api/dto"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/session"
)

// stubIdentity accepts any credentials and hands out a fixed session.
type stubIdentity struct {
	signOuts int
}

func (s *stubIdentity) SignIn(context.Context, string, string) (*ports.Session, error) {
	return &ports.Session{UserID: "driver-1", Email: "driver@example.com", AccessToken: "tok"}, nil
}

func (s *stubIdentity) SignUp(ctx context.Context, email, password string) (*ports.Session, error) {
	return s.SignIn(ctx, email, password)
}

func (s *stubIdentity) SignOut(context.Context, *ports.Session) error {
	s.signOuts++
	return nil
}

func (s *stubIdentity) RequestPasswordReset(context.Context, string, string) error { return nil }

func (s *stubIdentity) UpdatePassword(context.Context, *ports.Session, string) error { return nil }

type testEnv struct {
	srv  *httptest.Server
	idp  *stubIdentity
	ext  *extractor.MockAddressExtractor
	opt  *optimizer.MockRouteOptimizer
	db   *sql.DB
	mach *session.Machine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if err := repositories.InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}

	store := repositories.NewSqlitePackageStore(db)
	profiles := repositories.NewSqliteProfileStore(db)
	opt := optimizer.NewMockRouteOptimizer(nil)
	machine := session.NewMachine(store, profiles, opt, nil)

	idp := &stubIdentity{}
	ext := &extractor.MockAddressExtractor{}

	srv := httptest.NewServer(NewRouter(machine, idp, ext, nil))
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, idp: idp, ext: ext, opt: opt, db: db, mach: machine}
}

func (e *testEnv) post(t *testing.T, path string, body any) (*http.Response, dto.OperationResponse) {
	t.Helper()

	payload := []byte("{}")
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}

	resp, err := http.Post(e.srv.URL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST %s: %v", path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var op dto.OperationResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&op); err != nil {
			t.Fatalf("decode %s response: %v", path, err)
		}
	}
	return resp, op
}

func (e *testEnv) state(t *testing.T) dto.StateResponse {
	t.Helper()

	resp, err := http.Get(e.srv.URL + "/state")
	if err != nil {
		t.Fatalf("GET /state: %v", err)
	}
	defer resp.Body.Close()

	var st dto.StateResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return st
}

func TestFullDeliveryCycleOverHTTP(t *testing.T) {
	env := newTestEnv(t)
	env.ext.Addresses = []ports.ParsedAddress{
		{FullAddress: "Rua A, 1"},
		{FullAddress: "Rua B, 2"},
	}

	resp, op := env.post(t, "/auth/login", dto.CredentialsRequest{Email: "driver@example.com", Password: "pw"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	if op.Phase != "batch_setup" {
		t.Fatalf("phase after login = %s", op.Phase)
	}

	if _, op = env.post(t, "/batch/estimate", dto.EstimateRequest{Count: 2}); op.Phase != "package_capture" {
		t.Fatalf("phase after estimate = %s", op.Phase)
	}

	if _, op = env.post(t, "/packages/capture", dto.CaptureRequest{Text: "Rua A 1, Rua B 2"}); op.Phase != "package_capture" {
		t.Fatalf("phase after capture = %s", op.Phase)
	}

	st := env.state(t)
	if len(st.Packages) != 2 {
		t.Fatalf("state lists %d packages, want 2", len(st.Packages))
	}

	if _, op = env.post(t, "/route/auto", dto.OriginRequest{}); op.Phase != "delivering" {
		t.Fatalf("phase after route = %s (notice %q)", op.Phase, op.Notice)
	}

	st = env.state(t)
	if len(st.Route) != 2 || st.CurrentStop == nil {
		t.Fatalf("state route = %+v", st.Route)
	}

	first := st.CurrentStop.ID
	if _, op = env.post(t, "/route/resolve", dto.ResolveStopRequest{ID: first, Status: "delivered"}); op.Phase != "delivering" {
		t.Fatalf("phase after first resolve = %s", op.Phase)
	}

	st = env.state(t)
	if st.CurrentStop == nil || st.CurrentStop.ID == first {
		t.Fatal("stop pointer did not advance")
	}

	if _, op = env.post(t, "/route/resolve", dto.ResolveStopRequest{ID: st.CurrentStop.ID, Status: "cancelled"}); op.Phase != "completed" {
		t.Fatalf("phase after last resolve = %s", op.Phase)
	}

	// Quota was consumed and the counters survived the cycle.
	st = env.state(t)
	if st.User == nil || st.User.FreeDeliveriesUsed != 2 {
		t.Fatalf("user state = %+v", st.User)
	}
}

func TestLoginResumesPersistedRoute(t *testing.T) {
	env := newTestEnv(t)
	env.ext.Addresses = []ports.ParsedAddress{{FullAddress: "Rua A, 1"}}

	env.post(t, "/auth/login", dto.CredentialsRequest{Email: "driver@example.com", Password: "pw"})
	env.post(t, "/batch/estimate", dto.EstimateRequest{Count: 1})
	env.post(t, "/packages/capture", dto.CaptureRequest{Text: "Rua A 1"})
	env.post(t, "/route/auto", dto.OriginRequest{})

	if _, op := env.post(t, "/auth/logout", nil); op.Phase != "logged_out" {
		t.Fatalf("phase after logout = %s", op.Phase)
	}
	if env.idp.signOuts != 1 {
		t.Fatalf("sign outs = %d, want 1", env.idp.signOuts)
	}

	// Logging back in resumes the in-transit route from the store.
	if _, op := env.post(t, "/auth/login", dto.CredentialsRequest{Email: "driver@example.com", Password: "pw"}); op.Phase != "delivering" {
		t.Fatalf("phase after re-login = %s", op.Phase)
	}

	st := env.state(t)
	if st.CurrentStop == nil || st.CurrentStop.FullAddress != "Rua A, 1" {
		t.Fatalf("resumed stop = %+v", st.CurrentStop)
	}
}

func TestOperationsRejectedOutOfPhase(t *testing.T) {
	env := newTestEnv(t)

	// No session: batch operations are conflicts, not server errors.
	resp, _ := env.post(t, "/batch/estimate", dto.EstimateRequest{Count: 3})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("estimate while logged out = %d, want 409", resp.StatusCode)
	}

	env.post(t, "/auth/login", dto.CredentialsRequest{Email: "driver@example.com", Password: "pw"})

	resp, _ = env.post(t, "/route/resolve", dto.ResolveStopRequest{ID: "x", Status: "delivered"})
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("resolve in batch_setup = %d, want 409", resp.StatusCode)
	}

	resp, _ = env.post(t, "/route/resolve", dto.ResolveStopRequest{ID: "x", Status: "pending"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("non-terminal status = %d, want 400", resp.StatusCode)
	}

	resp, _ = env.post(t, "/auth/password-update", dto.PasswordUpdateRequest{NewPassword: "short"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short password = %d, want 400", resp.StatusCode)
	}
}

func TestEstimateDenialSurfacesRemaining(t *testing.T) {
	env := newTestEnv(t)

	env.post(t, "/auth/login", dto.CredentialsRequest{Email: "driver@example.com", Password: "pw"})

	// Burn the provisioned free allowance down to 2.
	if _, err := env.db.Exec(
		`UPDATE usuarios_rotaspeed SET entregas_gratis_utilizadas = 8 WHERE id = 'driver-1'`,
	); err != nil {
		t.Fatalf("update counters: %v", err)
	}
	// Force the machine to re-read the profile.
	env.post(t, "/auth/login", dto.CredentialsRequest{Email: "driver@example.com", Password: "pw"})

	resp, op := env.post(t, "/batch/estimate", dto.EstimateRequest{Count: 5})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !op.Denied || op.DenyReason != "quota_exceeded" || op.Remaining != 2 {
		t.Fatalf("denial = %+v", op)
	}
	if op.Phase != "batch_setup" {
		t.Fatalf("denial moved phase to %s", op.Phase)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.srv.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.srv.URL + "/auth/login")
	if err != nil {
		t.Fatalf("GET /auth/login: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", resp.StatusCode)
	}
}
