package handlers

import (
	"log"
	"net/http"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/api/dto"
	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

// Login signs the driver in and reconstructs any in-progress route from
// the store.
func (s *Shell) Login(w http.ResponseWriter, r *http.Request) {
	s.authenticate(w, r, false)
}

// SignUp registers a new driver; a default free-plan profile is
// provisioned on first authentication.
func (s *Shell) SignUp(w http.ResponseWriter, r *http.Request) {
	s.authenticate(w, r, true)
}

func (s *Shell) authenticate(w http.ResponseWriter, r *http.Request, signUp bool) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.CredentialsRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	var (
		sess *ports.Session
		err  error
	)
	if signUp {
		sess, err = s.Identity.SignUp(r.Context(), req.Email, req.Password)
	} else {
		sess, err = s.Identity.SignIn(r.Context(), req.Email, req.Password)
	}
	if err != nil {
		writeOpError(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.Machine.Authenticate(r.Context(), sess)
	if err != nil {
		log.Printf("authenticate failed: %v", err)
		writeOpError(w, r, err)
		return
	}

	s.startReconciler()
	writeJSON(w, r, http.StatusOK, operationResponse(res))
}

// Logout ends the session, stops the reconciler and resets the machine.
func (s *Shell) Logout(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.Machine.Session(); sess != nil {
		if err := s.Identity.SignOut(r.Context(), sess); err != nil {
			log.Printf("sign out failed: %v", err)
		}
	}

	s.haltReconciler()
	res := s.Machine.Logout()
	writeJSON(w, r, http.StatusOK, operationResponse(res))
}

// PasswordReset asks the identity provider to email a reset link.
func (s *Shell) PasswordReset(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PasswordResetRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if req.Email == "" {
		writeError(w, r, http.StatusBadRequest, "email is required")
		return
	}

	if err := s.Identity.RequestPasswordReset(r.Context(), req.Email, req.RedirectTarget); err != nil {
		writeOpError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "reset email sent"})
}

// PasswordUpdate changes the password of the signed-in driver.
func (s *Shell) PasswordUpdate(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.PasswordUpdateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if len(req.NewPassword) < 6 {
		writeError(w, r, http.StatusBadRequest, "new_password must be at least 6 characters")
		return
	}

	s.mu.Lock()
	sess := s.Machine.Session()
	s.mu.Unlock()

	if err := s.Identity.UpdatePassword(r.Context(), sess, req.NewPassword); err != nil {
		writeOpError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "password updated"})
}
