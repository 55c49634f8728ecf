package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/votehub/voting-api/internal/core/domain"
)

// ActivityRepository writes the vote audit trail.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Insert(ctx context.Context, a *domain.VoteActivity) error {
	rec := activityRecord{
		ID:          a.ID,
		UserID:      a.UserID,
		CandidateID: a.CandidateID,
		VoteID:      a.VoteID,
		Action:      string(a.Action),
		OccurredAt:  a.OccurredAt.UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}
