package ports

import (
	"context"

	"github.com/votehub/voting-api/internal/core/domain"
)

// CreateCandidateInput is the DTO passed from the transport layer to CandidateService.
type CreateCandidateInput struct {
	Name    string
	TypeID  *int64
	NewType string
}

// CandidateService defines use-case operations for candidates.
type CandidateService interface {
	List(ctx context.Context) ([]domain.CandidateSummary, error)
	Get(ctx context.Context, id int64) (*domain.Candidate, error)
	Create(ctx context.Context, in CreateCandidateInput) (*domain.Candidate, error)
	Rename(ctx context.Context, id int64, name string) (*domain.Candidate, error)
	Delete(ctx context.Context, id int64) (*domain.Candidate, error)
}

// CandidateTypeService defines use-case operations for candidate types.
type CandidateTypeService interface {
	List(ctx context.Context) ([]domain.CandidateType, error)
	Create(ctx context.Context, label string) (*domain.CandidateType, error)
}

// VoteService defines use-case operations for votes. subject is the caller's
// token subject.
type VoteService interface {
	Cast(ctx context.Context, subject string, candidateID int64) (*domain.Vote, error)
	Retract(ctx context.Context, subject string, voteID int64) (*domain.Vote, error)
	Get(ctx context.Context, subject string, voteID int64) (*domain.VoteDetail, error)
	ListAll(ctx context.Context) ([]domain.PublicVote, error)
	ListMine(ctx context.Context, subject string) ([]domain.MyVote, error)
	CountMine(ctx context.Context, subject string) (int64, error)
	TopCandidates(ctx context.Context, subject string) ([]domain.TopCandidate, error)
}

// UserService defines use-case operations for user profiles.
type UserService interface {
	Verify(ctx context.Context, identity domain.Identity) (*domain.User, error)
	Me(ctx context.Context, subject string) (*domain.User, error)
	UpdateName(ctx context.Context, subject, name string) (*domain.User, error)
}

// UserResolver maps a token subject to the stored user id.
type UserResolver interface {
	ResolveID(ctx context.Context, subject string) (int64, error)
}

// ProfileService composes the profile view.
type ProfileService interface {
	Profile(ctx context.Context, subject string) (*domain.Profile, error)
}
