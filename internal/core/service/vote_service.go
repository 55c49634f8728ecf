package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/votehub/voting-api/internal/api/metrics"
	"github.com/votehub/voting-api/internal/core/domain"
	"github.com/votehub/voting-api/internal/core/ports"
)

const topCandidatesLimit = 3

type VoteService struct {
	votes    ports.VoteRepository
	users    ports.UserResolver
	checker  *EligibilityChecker
	locker   VoteLocker
	cache    CandidateCache
	activity ActivityPublisher
	log      zerolog.Logger
}

// VoteServiceDeps groups the optional collaborators of VoteService. Nil
// members fall back to no-op implementations.
type VoteServiceDeps struct {
	Locker   VoteLocker
	Cache    CandidateCache
	Activity ActivityPublisher
}

func NewVoteService(votes ports.VoteRepository, users ports.UserResolver, deps VoteServiceDeps, log zerolog.Logger) *VoteService {
	s := &VoteService{
		votes:    votes,
		users:    users,
		checker:  NewEligibilityChecker(),
		locker:   deps.Locker,
		cache:    deps.Cache,
		activity: deps.Activity,
		log:      log,
	}
	if s.locker == nil {
		s.locker = nopLocker{}
	}
	if s.cache == nil {
		s.cache = nopCache{}
	}
	if s.activity == nil {
		s.activity = nopPublisher{}
	}
	return s
}

// Cast records a vote by the caller for candidateID after the eligibility
// checks pass. A denied vote performs no write.
func (s *VoteService) Cast(ctx context.Context, subject string, candidateID int64) (*domain.Vote, error) {
	if candidateID <= 0 {
		return nil, validationError("candidateId is required to cast a vote")
	}

	userID, err := s.users.ResolveID(ctx, subject)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, userID)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Store constraints still hold without the lock.
		s.log.Warn().Err(err).Int64("user_id", userID).Msg("vote lock unavailable, relying on store constraints")
		unlock = func() {}
	}
	defer unlock()

	vote, err := s.votes.Cast(ctx, userID, candidateID, func(ctx context.Context, r ports.EligibilityReader) (*domain.Candidate, error) {
		return s.checker.Check(ctx, r, userID, candidateID)
	})
	if err != nil {
		metrics.VotesRejectedTotal.WithLabelValues(rejectReason(err)).Inc()
		if isRejection(err) {
			s.log.Info().Err(err).Int64("user_id", userID).Int64("candidate_id", candidateID).Msg("vote rejected")
			return nil, err
		}
		return nil, fmt.Errorf("cast vote: %w", err)
	}

	metrics.VotesCastTotal.Inc()
	s.afterChange(ctx, vote, domain.ActivityCast)

	s.log.Info().
		Int64("vote_id", vote.ID).
		Int64("user_id", userID).
		Int64("candidate_id", candidateID).
		Msg("vote cast")

	return vote, nil
}

// Retract deletes one of the caller's votes.
func (s *VoteService) Retract(ctx context.Context, subject string, voteID int64) (*domain.Vote, error) {
	userID, err := s.users.ResolveID(ctx, subject)
	if err != nil {
		return nil, err
	}

	vote, err := s.votes.FindByID(ctx, voteID)
	if err != nil {
		return nil, err
	}
	if vote.UserID != userID {
		return nil, domain.ErrForbidden
	}

	deleted, err := s.votes.Delete(ctx, voteID)
	if err != nil {
		if errors.Is(err, domain.ErrVoteNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("retract vote: %w", err)
	}

	metrics.VotesRetractedTotal.Inc()
	s.afterChange(ctx, deleted, domain.ActivityRetract)

	s.log.Info().Int64("vote_id", voteID).Int64("user_id", userID).Msg("vote retracted")
	return deleted, nil
}

// Get returns one of the caller's votes.
func (s *VoteService) Get(ctx context.Context, subject string, voteID int64) (*domain.VoteDetail, error) {
	userID, err := s.users.ResolveID(ctx, subject)
	if err != nil {
		return nil, err
	}

	detail, err := s.votes.FindDetail(ctx, voteID)
	if err != nil {
		return nil, err
	}
	if detail.UserID != userID {
		return nil, domain.ErrForbidden
	}
	return detail, nil
}

func (s *VoteService) ListAll(ctx context.Context) ([]domain.PublicVote, error) {
	return s.votes.ListAll(ctx)
}

func (s *VoteService) ListMine(ctx context.Context, subject string) ([]domain.MyVote, error) {
	userID, err := s.users.ResolveID(ctx, subject)
	if err != nil {
		return nil, err
	}
	return s.votes.ListByUser(ctx, userID)
}

func (s *VoteService) CountMine(ctx context.Context, subject string) (int64, error) {
	userID, err := s.users.ResolveID(ctx, subject)
	if err != nil {
		return 0, err
	}
	return s.votes.CountByUser(ctx, userID)
}

// TopCandidates returns the three candidates with the most global votes among
// those the caller voted for.
func (s *VoteService) TopCandidates(ctx context.Context, subject string) ([]domain.TopCandidate, error) {
	userID, err := s.users.ResolveID(ctx, subject)
	if err != nil {
		return nil, err
	}
	return s.votes.TopCandidatesForUser(ctx, userID, topCandidatesLimit)
}

func (s *VoteService) afterChange(ctx context.Context, vote *domain.Vote, action domain.ActivityAction) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("failed to invalidate candidate cache")
	}
	s.activity.Enqueue(domain.VoteActivity{
		ID:          uuid.NewString(),
		UserID:      vote.UserID,
		CandidateID: vote.CandidateID,
		VoteID:      vote.ID,
		Action:      action,
		OccurredAt:  time.Now().UTC(),
	})
}
