package service

import (
	"context"
	"fmt"
	"time"

	"github.com/votehub/voting-api/internal/api/metrics"
	"github.com/votehub/voting-api/internal/core/domain"
	"github.com/votehub/voting-api/internal/core/ports"
)

// EligibilityChecker decides whether a (user, candidate) pair may produce a new
// vote. Checks run most specific first: missing candidate, exact duplicate,
// then type conflict.
type EligibilityChecker struct{}

func NewEligibilityChecker() *EligibilityChecker {
	return &EligibilityChecker{}
}

// Check returns the target candidate when the vote is allowed.
func (EligibilityChecker) Check(ctx context.Context, r ports.EligibilityReader, userID, candidateID int64) (*domain.Candidate, error) {
	start := time.Now()
	candidate, err := check(ctx, r, userID, candidateID)
	metrics.EligibilityCheckDuration.WithLabelValues(rejectReason(err)).Observe(time.Since(start).Seconds())
	return candidate, err
}

func check(ctx context.Context, r ports.EligibilityReader, userID, candidateID int64) (*domain.Candidate, error) {
	candidate, err := r.FindCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	dup, err := r.HasVoteForCandidate(ctx, userID, candidateID)
	if err != nil {
		return nil, fmt.Errorf("eligibility: candidate vote lookup: %w", err)
	}
	if dup {
		return nil, domain.ErrDuplicateVote
	}

	// Untyped candidates cannot conflict at type level.
	if !candidate.HasType() {
		return candidate, nil
	}

	conflict, err := r.HasVoteForType(ctx, userID, *candidate.TypeID)
	if err != nil {
		return nil, fmt.Errorf("eligibility: type vote lookup: %w", err)
	}
	if conflict {
		return nil, domain.TypeConflictError(candidate.TypeLabel)
	}

	return candidate, nil
}
