package service

import (
	"context"
	"errors"

	"github.com/votehub/voting-api/internal/core/domain"
)

// VoteLocker serialises vote casting per user across API instances (Redis).
type VoteLocker interface {
	Lock(ctx context.Context, userID int64) (unlock func(), err error)
}

// CandidateCache stores the candidate list view (Redis). Get reports the
// cache generation on a miss; Set with that generation is dropped when an
// Invalidate ran in between.
type CandidateCache interface {
	Get(ctx context.Context) (list []domain.CandidateSummary, gen int64, ok bool, err error)
	Set(ctx context.Context, gen int64, list []domain.CandidateSummary) error
	Invalidate(ctx context.Context) error
}

// ActivityPublisher hands audit records to the background dispatcher.
type ActivityPublisher interface {
	Enqueue(a domain.VoteActivity)
}

type nopLocker struct{}

func (nopLocker) Lock(context.Context, int64) (func(), error) { return func() {}, nil }

type nopCache struct{}

func (nopCache) Get(context.Context) ([]domain.CandidateSummary, int64, bool, error) {
	return nil, 0, false, nil
}
func (nopCache) Set(context.Context, int64, []domain.CandidateSummary) error { return nil }
func (nopCache) Invalidate(context.Context) error                            { return nil }

type nopPublisher struct{}

func (nopPublisher) Enqueue(domain.VoteActivity) {}

// rejectReason labels a cast failure for metrics.
func rejectReason(err error) string {
	switch {
	case err == nil:
		return "allowed"
	case errors.Is(err, domain.ErrCandidateNotFound):
		return "candidate_not_found"
	case errors.Is(err, domain.ErrDuplicateVote):
		return "duplicate_vote"
	case errors.Is(err, domain.ErrTypeConflict):
		return "type_conflict"
	case errors.Is(err, domain.ErrUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	default:
		return "error"
	}
}

// isRejection reports whether err is a business rule outcome rather than a
// store failure. Rejections are returned unwrapped so their message reaches
// the client as is.
func isRejection(err error) bool {
	return rejectReason(err) != "error"
}
