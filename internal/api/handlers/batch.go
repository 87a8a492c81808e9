package handlers

import (
	"net/http"
	"strings"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/api/dto"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

// SetEstimate records the driver's batch-size estimate.
func (s *Shell) SetEstimate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.EstimateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Count <= 0 {
		writeError(w, r, http.StatusBadRequest, "count must be positive")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Machine.SetBatchEstimate(req.Count)
	if err != nil {
		writeOpError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, operationResponse(res))
}

// Capture runs address extraction on raw input and persists the results
// as pending packages. Zero recognized addresses is a notice, not an error.
func (s *Shell) Capture(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.CaptureRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if strings.TrimSpace(req.Text) == "" && req.ImageBase64 == "" {
		writeError(w, r, http.StatusBadRequest, "text or image_base64 is required")
		return
	}

	parsed, err := s.Extractor.ExtractAddresses(r.Context(), ports.ExtractionInput{
		Text:        req.Text,
		ImageBase64: req.ImageBase64,
		ImageMime:   req.ImageMime,
	})
	if err != nil {
		writeOpError(w, r, err)
		return
	}

	kind := domain.InputKind(req.InputType)
	if kind == "" {
		kind = domain.InputText
		if req.ImageBase64 != "" {
			kind = domain.InputPhoto
		}
	}
	rawInput := req.Text
	if rawInput == "" {
		rawInput = "image capture"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Machine.CapturePackages(r.Context(), parsed, kind, rawInput)
	if err != nil {
		writeOpError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, operationResponse(res))
}

// RemovePackage deletes a pending package from the batch.
func (s *Shell) RemovePackage(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.RemovePackageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.ID == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Machine.RemovePackage(r.Context(), req.ID)
	if err != nil {
		writeOpError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, operationResponse(res))
}

// ClearBatch discards the current batch and restarts the cycle.
func (s *Shell) ClearBatch(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Machine.ClearBatch()
	if err != nil {
		writeOpError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, operationResponse(res))
}

// AcknowledgeGate re-checks the plan gate after an external fix (quota
// reset, plan reactivation) and returns to batch setup when it passes.
func (s *Shell) AcknowledgeGate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Machine.AcknowledgeGate(r.Context())
	if err != nil {
		writeOpError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, operationResponse(res))
}
