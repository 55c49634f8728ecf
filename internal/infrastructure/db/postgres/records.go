package postgres

import (
	"time"

	"github.com/votehub/voting-api/internal/core/domain"
)

type userRecord struct {
	ID        int64  `gorm:"primaryKey"`
	Auth0ID   string `gorm:"column:auth0_id"`
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (userRecord) TableName() string { return "users" }

func (r userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:        r.ID,
		Auth0ID:   r.Auth0ID,
		Name:      r.Name,
		Email:     r.Email,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type candidateTypeRecord struct {
	ID   int64 `gorm:"primaryKey"`
	Type string
}

func (candidateTypeRecord) TableName() string { return "candidate_types" }

func (r candidateTypeRecord) toDomain() domain.CandidateType {
	return domain.CandidateType{ID: r.ID, Type: r.Type}
}

type candidateRecord struct {
	ID        int64 `gorm:"primaryKey"`
	Name      string
	TypeID    *int64
	CreatedAt time.Time
}

func (candidateRecord) TableName() string { return "candidates" }

func (r candidateRecord) toDomain(typeLabel string) *domain.Candidate {
	return &domain.Candidate{
		ID:        r.ID,
		Name:      r.Name,
		TypeID:    r.TypeID,
		TypeLabel: typeLabel,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

// candidateRow is a candidate joined with its type label.
type candidateRow struct {
	ID        int64
	Name      string
	TypeID    *int64
	TypeLabel string
	CreatedAt time.Time
}

type voteRecord struct {
	ID          int64 `gorm:"primaryKey"`
	UserID      int64
	CandidateID int64
	TypeID      *int64
	CreatedAt   time.Time
}

func (voteRecord) TableName() string { return "votes" }

func (r voteRecord) toDomain() *domain.Vote {
	return &domain.Vote{
		ID:          r.ID,
		UserID:      r.UserID,
		CandidateID: r.CandidateID,
		TypeID:      r.TypeID,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

type publicVoteRow struct {
	CandidateID   int64
	CandidateName string
}

type activityRecord struct {
	ID          string `gorm:"primaryKey;type:uuid"`
	UserID      int64
	CandidateID int64
	VoteID      int64
	Action      string
	OccurredAt  time.Time
}

func (activityRecord) TableName() string { return "vote_activity" }
