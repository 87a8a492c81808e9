package ports

import (
	"context"

	"github.com/glaubern8n01/rotaspeed-unificado/internal/domain"
)

// Port: persistence boundary for the authoritative user/plan record.
type ProfileStore interface {
	// Fetch a profile. Returns ErrNotFound when none exists yet.
	GetProfile(ctx context.Context, userID string) (*domain.User, error)

	// Create or update a profile and return the stored record.
	UpsertProfile(ctx context.Context, user *domain.User) (*domain.User, error)
}
