package domain

import "errors"

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")

	ErrUserNotFound          = errors.New("user not found")
	ErrCandidateNotFound     = errors.New("candidate not found")
	ErrCandidateTypeNotFound = errors.New("candidate type not found")
	ErrVoteNotFound          = errors.New("vote not found")

	ErrDuplicateVote = errors.New("you have already voted for this candidate")
	ErrTypeConflict  = errors.New("you have already voted for a candidate of this type")
	ErrDuplicateType = errors.New("candidate type already exists")
)
