package ports

import (
	"context"

	"github.com/votehub/voting-api/internal/core/domain"
)

// NewCandidate carries the fields of a candidate to insert. Exactly one of
// TypeID or NewType is set; with NewType the type row and the candidate are
// created together.
type NewCandidate struct {
	Name    string
	TypeID  *int64
	NewType string
}

// CandidateRepository defines persistence operations for candidates.
type CandidateRepository interface {
	List(ctx context.Context) ([]domain.CandidateSummary, error)
	FindByID(ctx context.Context, id int64) (*domain.Candidate, error)
	Create(ctx context.Context, c NewCandidate) (*domain.Candidate, error)
	Rename(ctx context.Context, id int64, name string) (*domain.Candidate, error)
	// Delete removes the candidate and its votes and returns the removed row.
	Delete(ctx context.Context, id int64) (*domain.Candidate, error)
}

// CandidateTypeRepository defines persistence operations for candidate types.
type CandidateTypeRepository interface {
	List(ctx context.Context) ([]domain.CandidateType, error)
	FindByID(ctx context.Context, id int64) (*domain.CandidateType, error)
	Create(ctx context.Context, label string) (*domain.CandidateType, error)
}
