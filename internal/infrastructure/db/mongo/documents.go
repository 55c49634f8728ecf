package mongo

import (
	"time"

	"github.com/votehub/voting-api/internal/core/domain"
)

type userDoc struct {
	ID        int64     `bson:"_id"`
	Auth0ID   string    `bson:"auth0_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:        d.ID,
		Auth0ID:   d.Auth0ID,
		Name:      d.Name,
		Email:     d.Email,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

type candidateTypeDoc struct {
	ID   int64  `bson:"_id"`
	Type string `bson:"type"`
}

type candidateDoc struct {
	ID        int64     `bson:"_id"`
	Name      string    `bson:"name"`
	TypeID    *int64    `bson:"type_id,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d candidateDoc) toDomain(typeLabel string) *domain.Candidate {
	return &domain.Candidate{
		ID:        d.ID,
		Name:      d.Name,
		TypeID:    d.TypeID,
		TypeLabel: typeLabel,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

// type_id is omitted for untyped candidates so the partial unique index on
// (user_id, type_id) ignores those votes.
type voteDoc struct {
	ID          int64     `bson:"_id"`
	UserID      int64     `bson:"user_id"`
	CandidateID int64     `bson:"candidate_id"`
	TypeID      *int64    `bson:"type_id,omitempty"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d voteDoc) toDomain() *domain.Vote {
	return &domain.Vote{
		ID:          d.ID,
		UserID:      d.UserID,
		CandidateID: d.CandidateID,
		TypeID:      d.TypeID,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

type activityDoc struct {
	ID          string    `bson:"_id"`
	UserID      int64     `bson:"user_id"`
	CandidateID int64     `bson:"candidate_id"`
	VoteID      int64     `bson:"vote_id"`
	Action      string    `bson:"action"`
	OccurredAt  time.Time `bson:"occurred_at"`
}

// Aggregation result shapes.

type candidateSummaryDoc struct {
	ID            int64  `bson:"_id"`
	Name          string `bson:"name"`
	CandidateType string `bson:"candidate_type"`
	VotesCount    int64  `bson:"votes_count"`
}

type candidateWithTypeDoc struct {
	candidateDoc `bson:",inline"`
	TypeLabel    string `bson:"type_label"`
}

type voteDetailDoc struct {
	ID            int64     `bson:"_id"`
	UserID        int64     `bson:"user_id"`
	UserName      string    `bson:"user_name"`
	CandidateName string    `bson:"candidate_name"`
	CandidateType string    `bson:"candidate_type"`
	VotesCount    int64     `bson:"votes_count"`
	CreatedAt     time.Time `bson:"created_at"`
}

type publicVoteDoc struct {
	CandidateID   int64  `bson:"candidate_id"`
	CandidateName string `bson:"candidate_name"`
}
