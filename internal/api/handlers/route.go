package handlers

import (
	"net/http"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/api/dto"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
)

// RouteAuto creates a route from the pending batch via the optimizer.
func (s *Shell) RouteAuto(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.OriginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	origin := domain.OriginHint{ManualAddress: req.ManualAddress}
	if req.Latitude != nil && req.Longitude != nil {
		origin.Location = &domain.Coordinates{Lat: *req.Latitude, Lon: *req.Longitude}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Machine.CreateRouteAuto(r.Context(), origin)
	if err != nil {
		writeOpError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, operationResponse(res))
}

// ManualBegin switches to manual ordering with a working copy of the batch.
func (s *Shell) ManualBegin(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Machine.BeginManualOrdering()
	if err != nil {
		writeOpError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, operationResponse(res))
}

// ManualMove shifts one package up or down in the working order.
func (s *Shell) ManualMove(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.MoveStopRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.ID == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}
	if req.Direction != "up" && req.Direction != "down" {
		writeError(w, r, http.StatusBadRequest, "direction must be up or down")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Machine.MoveStop(req.ID, req.Direction == "up")
	if err != nil {
		writeOpError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, operationResponse(res))
}

// ManualConfirm persists the working order as the route.
func (s *Shell) ManualConfirm(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Machine.ConfirmManualOrder(r.Context())
	if err != nil {
		writeOpError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, operationResponse(res))
}

// ResolveStop marks the current stop delivered, cancelled or undeliverable.
func (s *Shell) ResolveStop(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ResolveStopRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.ID == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	status := domain.Status(req.Status)
	if !status.Terminal() {
		writeError(w, r, http.StatusBadRequest, "status must be delivered, cancelled or undeliverable")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Machine.ResolveStop(r.Context(), req.ID, status)
	if err != nil {
		writeOpError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, operationResponse(res))
}
