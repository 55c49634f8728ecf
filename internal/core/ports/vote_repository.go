package ports

import (
	"context"

	"github.com/votehub/voting-api/internal/core/domain"
)

// EligibilityReader is the read side the eligibility checker needs. Store
// adapters bind it to the transaction that performs the insert.
type EligibilityReader interface {
	FindCandidate(ctx context.Context, candidateID int64) (*domain.Candidate, error)
	// HasVoteForCandidate reports whether userID already voted for candidateID.
	HasVoteForCandidate(ctx context.Context, userID, candidateID int64) (bool, error)
	// HasVoteForType reports whether userID already voted for any candidate of typeID.
	HasVoteForType(ctx context.Context, userID, typeID int64) (bool, error)
}

// EligibilityFunc decides whether a vote may be written and returns the target
// candidate when it may.
type EligibilityFunc func(ctx context.Context, r EligibilityReader) (*domain.Candidate, error)

// VoteRepository defines persistence operations for votes.
type VoteRepository interface {
	// Cast runs check and, when it allows, inserts the vote. Both happen under
	// the same store transaction and per-user lock, so concurrent casts by one
	// user are serialised. Unique constraint violations are reported as
	// domain.ErrDuplicateVote or domain.ErrTypeConflict.
	Cast(ctx context.Context, userID, candidateID int64, check EligibilityFunc) (*domain.Vote, error)
	FindByID(ctx context.Context, id int64) (*domain.Vote, error)
	FindDetail(ctx context.Context, id int64) (*domain.VoteDetail, error)
	Delete(ctx context.Context, id int64) (*domain.Vote, error)
	ListAll(ctx context.Context) ([]domain.PublicVote, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.MyVote, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	// TopCandidatesForUser returns the candidates userID voted for ordered by
	// global vote count desc, then id asc, capped at limit.
	TopCandidatesForUser(ctx context.Context, userID int64, limit int) ([]domain.TopCandidate, error)
}

// ActivityRepository persists the vote audit trail.
type ActivityRepository interface {
	Insert(ctx context.Context, a *domain.VoteActivity) error
}
