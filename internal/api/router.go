package api

import (
	"net/http"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/api/handlers"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/session"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(
	machine *session.Machine,
	idp ports.IdentityProvider,
	extractor ports.AddressExtractor,
	reconciler *session.Reconciler,
) http.Handler {
	mux := http.NewServeMux()

	shell := &handlers.Shell{
		Machine:    machine,
		Identity:   idp,
		Extractor:  extractor,
		Reconciler: reconciler,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/state", shell.State)

	mux.HandleFunc("/auth/login", shell.Login)
	mux.HandleFunc("/auth/signup", shell.SignUp)
	mux.HandleFunc("/auth/logout", shell.Logout)
	mux.HandleFunc("/auth/password-reset", shell.PasswordReset)
	mux.HandleFunc("/auth/password-update", shell.PasswordUpdate)

	mux.HandleFunc("/batch/estimate", shell.SetEstimate)
	mux.HandleFunc("/batch/clear", shell.ClearBatch)
	mux.HandleFunc("/gate/acknowledge", shell.AcknowledgeGate)

	mux.HandleFunc("/packages/capture", shell.Capture)
	mux.HandleFunc("/packages/remove", shell.RemovePackage)

	mux.HandleFunc("/route/auto", shell.RouteAuto)
	mux.HandleFunc("/route/manual/begin", shell.ManualBegin)
	mux.HandleFunc("/route/manual/move", shell.ManualMove)
	mux.HandleFunc("/route/manual/confirm", shell.ManualConfirm)
	mux.HandleFunc("/route/resolve", shell.ResolveStop)

	return loggingMiddleware(mux)
}
