package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/adapters/identity"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/api/dto"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/quota"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/session"
)

// Shell is the presentation-side consumer of the state machine. It
// serializes machine calls with a mutex, so the machine itself never sees
// concurrent operations, and it owns the reconciler's lifetime: started on
// login, cancelled on logout.
type Shell struct {
	Machine    *session.Machine
	Identity   ports.IdentityProvider
	Extractor  ports.AddressExtractor
	Reconciler *session.Reconciler

	mu             sync.Mutex
	stopReconciler context.CancelFunc
}

func (s *Shell) startReconciler() {
	if s.Reconciler == nil {
		return
	}
	s.haltReconciler()

	ctx, cancel := context.WithCancel(context.Background())
	s.stopReconciler = cancel
	go s.Reconciler.Run(ctx)
}

func (s *Shell) haltReconciler() {
	if s.stopReconciler != nil {
		s.stopReconciler()
		s.stopReconciler = nil
	}
}

// writeOpError maps machine errors onto HTTP statuses.
func writeOpError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidTransition):
		writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, identity.ErrAuthFailed):
		writeError(w, r, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, err.Error())
	}
}

func operationResponse(res *session.Result) dto.OperationResponse {
	out := dto.OperationResponse{
		Phase:     string(res.Phase),
		Notice:    res.Notice,
		FailedIDs: res.FailedIDs,
	}
	if res.Denied != nil {
		out.Denied = true
		out.DenyReason = string(res.Denied.Reason)
		out.Remaining = res.Denied.Remaining
	}
	return out
}

func packageResponse(p *domain.Package) dto.PackageResponse {
	return dto.PackageResponse{
		ID:             p.ID,
		FullAddress:    p.FullAddress,
		RecipientName:  p.RecipientName,
		Phone:          p.Phone,
		Status:         string(p.Status),
		SequenceNumber: p.SequenceNumber,
		RouteID:        p.RouteID,
		DeliveryNotes:  p.DeliveryNotes,
	}
}

// State reports the machine's full current state for rendering.
func (s *Shell) State(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := dto.StateResponse{
		Phase:    string(s.Machine.Phase()),
		Estimate: s.Machine.Estimate(),
		Packages: make([]dto.PackageResponse, 0, len(s.Machine.Packages())),
	}

	if u := s.Machine.User(); u != nil {
		res.User = &dto.UserResponse{
			ID:                 u.ID,
			Email:              u.Email,
			PlanName:           u.PlanName,
			DailyQuota:         u.DailyQuota,
			DeliveriesToday:    u.DeliveriesToday,
			FreeDeliveriesUsed: u.FreeDeliveriesUsed,
			PlanActive:         u.PlanActive,
			Remaining:          quota.RemainingAllowance(u),
		}
	}

	for _, p := range s.Machine.Packages() {
		res.Packages = append(res.Packages, packageResponse(p))
	}

	for _, p := range s.Machine.WorkingOrder() {
		res.WorkingOrder = append(res.WorkingOrder, packageResponse(p))
	}

	if route := s.Machine.Route(); route != nil {
		res.Route = make([]dto.PackageResponse, 0, len(route.Stops))
		for _, p := range route.Stops {
			res.Route = append(res.Route, packageResponse(p))
		}
		if stop, ok := route.CurrentStop(); ok {
			pr := packageResponse(stop)
			res.CurrentStop = &pr
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}
