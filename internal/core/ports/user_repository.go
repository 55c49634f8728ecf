package ports

import (
	"context"

	"github.com/votehub/voting-api/internal/core/domain"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// GetOrCreate returns the user keyed by identity.Subject, inserting it from
	// the identity claims when absent. It is a single atomic upsert.
	GetOrCreate(ctx context.Context, identity domain.Identity) (*domain.User, error)
	FindByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error)
	UpdateName(ctx context.Context, auth0ID, name string) (*domain.User, error)
}
