package domain

import (
	"fmt"
	"time"
)

// Vote links one user to one candidate. TypeID mirrors the candidate's type
// at cast time so the store can enforce one vote per type per user.
type Vote struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	CandidateID int64     `json:"candidateId"`
	TypeID      *int64    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// VoteDetail is the owner's view of a single vote.
type VoteDetail struct {
	VoteID        int64     `json:"voteId"`
	UserID        int64     `json:"-"`
	UserName      string    `json:"userName"`
	CandidateName string    `json:"candidateName"`
	CandidateType string    `json:"candidateType"`
	CreatedAt     time.Time `json:"createdAt"`
}

// MyVote is a row of the caller's vote list.
type MyVote struct {
	ID            int64  `json:"id"`
	UserName      string `json:"userName"`
	CandidateName string `json:"candidateName"`
	CandidateType string `json:"candidateType"`
	VotesCount    int64  `json:"votesCount"`
}

// PublicVote is the anonymous view of a vote.
type PublicVote struct {
	CandidateID int64          `json:"candidateId"`
	Candidate   PublicVoteItem `json:"candidate"`
}

type PublicVoteItem struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TypeConflictError wraps ErrTypeConflict with the label of the conflicting type.
func TypeConflictError(label string) error {
	if label == "" {
		return ErrTypeConflict
	}
	return fmt.Errorf("%w: %s", ErrTypeConflict, label)
}
