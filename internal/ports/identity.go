package ports

import "context"

// Session is an authenticated driver session issued by the identity
// provider. UserID and Email are stable for the session's lifetime.
type Session struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
}

// Port: the external identity provider.
type IdentityProvider interface {
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context, session *Session) error
	RequestPasswordReset(ctx context.Context, email, redirectTarget string) error
	UpdatePassword(ctx context.Context, session *Session, newPassword string) error
}
