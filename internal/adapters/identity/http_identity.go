package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/ports"
)

// ErrAuthFailed marks unrecoverable authentication failures; callers react
// by forcing the session back to the logged-out state.
var ErrAuthFailed = errors.New("authentication failed")

// HTTPIdentityProvider implements IdentityProvider against a GoTrue-style
// auth service. Sessions carry a JWT access token; the stable user id and
// email are read from its claims rather than trusted from the response body.
type HTTPIdentityProvider struct {
	session *http.Client
	baseURL string
	anonKey string
}

func NewHTTPIdentityProvider(baseURL, anonKey string) (*HTTPIdentityProvider, error) {
	if baseURL == "" {
		return nil, errors.New("identity base URL is empty")
	}

	return &HTTPIdentityProvider{
		session: &http.Client{Timeout: 15 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
	}, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (p *HTTPIdentityProvider) SignIn(ctx context.Context, email, password string) (*ports.Session, error) {
	return p.token(ctx, "/token?grant_type=password", email, password)
}

func (p *HTTPIdentityProvider) SignUp(ctx context.Context, email, password string) (*ports.Session, error) {
	return p.token(ctx, "/signup", email, password)
}

func (p *HTTPIdentityProvider) token(ctx context.Context, path, email, password string) (*ports.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("sign in: %w: email and password are required", ErrAuthFailed)
	}

	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, fmt.Errorf("sign in: marshal credentials: %w", err)
	}

	var tok tokenResponse
	if err := p.post(ctx, path, "", bytes.NewReader(body), &tok); err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	sess, err := SessionFromToken(tok.AccessToken, tok.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	return sess, nil
}

func (p *HTTPIdentityProvider) SignOut(ctx context.Context, session *ports.Session) error {
	if session == nil {
		return nil
	}

	if err := p.post(ctx, "/logout", session.AccessToken, nil, nil); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

func (p *HTTPIdentityProvider) RequestPasswordReset(ctx context.Context, email, redirectTarget string) error {
	body, err := json.Marshal(map[string]string{
		"email":       email,
		"redirect_to": redirectTarget,
	})
	if err != nil {
		return fmt.Errorf("request password reset: marshal body: %w", err)
	}

	if err := p.post(ctx, "/recover", "", bytes.NewReader(body), nil); err != nil {
		return fmt.Errorf("request password reset: %w", err)
	}
	return nil
}

func (p *HTTPIdentityProvider) UpdatePassword(ctx context.Context, session *ports.Session, newPassword string) error {
	if session == nil {
		return fmt.Errorf("update password: %w: no session", ErrAuthFailed)
	}

	body, err := json.Marshal(map[string]string{"password": newPassword})
	if err != nil {
		return fmt.Errorf("update password: marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, p.baseURL+"/user", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("update password: create request: %w", err)
	}
	p.setHeaders(req, session.AccessToken)

	resp, err := p.session.Do(req)
	if err != nil {
		return fmt.Errorf("update password: call auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("update password: %w", statusErr(resp))
	}
	return nil
}

func (p *HTTPIdentityProvider) post(ctx context.Context, path, token string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	p.setHeaders(req, token)

	resp, err := p.session.Do(req)
	if err != nil {
		return fmt.Errorf("call auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusErr(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (p *HTTPIdentityProvider) setHeaders(req *http.Request, token string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if p.anonKey != "" {
		req.Header.Set("apikey", p.anonKey)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func statusErr(resp *http.Response) error {
	b, _ := io.ReadAll(resp.Body)
	msg := strings.TrimSpace(string(b))

	// Rejected credentials are unrecoverable for the caller.
	if resp.StatusCode == 400 || resp.StatusCode == 401 || resp.StatusCode == 403 {
		return fmt.Errorf("%w: status %d: %s", ErrAuthFailed, resp.StatusCode, msg)
	}
	return fmt.Errorf("auth service returned %d: %s", resp.StatusCode, msg)
}

// SessionFromToken builds a session from a JWT access token. The token is
// parsed without signature verification: verification is the auth service's
// job, this side only needs the stable subject and email claims.
func SessionFromToken(accessToken, refreshToken string) (*ports.Session, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", ErrAuthFailed)
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("%w: parse access token: %v", ErrAuthFailed, err)
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: access token has no subject", ErrAuthFailed)
	}

	email, _ := claims["email"].(string)

	return &ports.Session{
		UserID:       sub,
		Email:        email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
