package service

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/votehub/voting-api/internal/core/domain"
	"github.com/votehub/voting-api/internal/core/ports"
)

const (
	defaultUserCacheSize = 1024
	defaultUserCacheTTL  = 10 * time.Minute
)

// UserService manages user profiles and resolves token subjects to user ids.
// Users are never deleted, so subject → id mappings can be cached.
type UserService struct {
	repo ports.UserRepository
	ids  *expirable.LRU[string, int64]
	log  zerolog.Logger
}

func NewUserService(repo ports.UserRepository, cacheSize int, cacheTTL time.Duration, log zerolog.Logger) *UserService {
	if cacheSize <= 0 {
		cacheSize = defaultUserCacheSize
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultUserCacheTTL
	}
	return &UserService{
		repo: repo,
		ids:  expirable.NewLRU[string, int64](cacheSize, nil, cacheTTL),
		log:  log,
	}
}

// Verify returns the caller's user record, creating it from the token claims
// on first use.
func (s *UserService) Verify(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if identity.Subject == "" {
		return nil, domain.ErrUnauthorized
	}
	identity.Name = cleanText(identity.Name)

	user, err := s.repo.GetOrCreate(ctx, identity)
	if err != nil {
		return nil, err
	}
	s.ids.Add(user.Auth0ID, user.ID)

	s.log.Debug().Str("subject", identity.Subject).Int64("user_id", user.ID).Msg("user verified")
	return user, nil
}

func (s *UserService) Me(ctx context.Context, subject string) (*domain.User, error) {
	if subject == "" {
		return nil, domain.ErrUnauthorized
	}
	return s.repo.FindByAuth0ID(ctx, subject)
}

func (s *UserService) UpdateName(ctx context.Context, subject, name string) (*domain.User, error) {
	if subject == "" {
		return nil, domain.ErrUnauthorized
	}
	clean := cleanText(name)
	if clean == "" {
		return nil, validationError("name is required")
	}
	return s.repo.UpdateName(ctx, subject, clean)
}

// ResolveID implements ports.UserResolver.
func (s *UserService) ResolveID(ctx context.Context, subject string) (int64, error) {
	if subject == "" {
		return 0, domain.ErrUnauthorized
	}
	if id, ok := s.ids.Get(subject); ok {
		return id, nil
	}

	user, err := s.repo.FindByAuth0ID(ctx, subject)
	if err != nil {
		return 0, err
	}
	s.ids.Add(subject, user.ID)
	return user.ID, nil
}
