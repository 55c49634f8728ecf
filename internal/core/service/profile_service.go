package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/votehub/voting-api/internal/core/domain"
	"github.com/votehub/voting-api/internal/core/ports"
)

// ProfileService composes the user record, vote total, and top candidates.
// The three reads are independent and run concurrently.
type ProfileService struct {
	users ports.UserService
	votes ports.VoteService
}

func NewProfileService(users ports.UserService, votes ports.VoteService) *ProfileService {
	return &ProfileService{users: users, votes: votes}
}

func (s *ProfileService) Profile(ctx context.Context, subject string) (*domain.Profile, error) {
	var (
		user  *domain.User
		total int64
		top   []domain.TopCandidate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.users.Me(gctx, subject)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.votes.CountMine(gctx, subject)
		return err
	})
	g.Go(func() error {
		var err error
		top, err = s.votes.TopCandidates(gctx, subject)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if top == nil {
		top = []domain.TopCandidate{}
	}
	return &domain.Profile{User: user, TotalVotes: total, TopCandidates: top}, nil
}
