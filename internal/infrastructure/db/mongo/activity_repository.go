package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/votehub/voting-api/internal/core/domain"
)

type ActivityRepository struct {
	coll *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{coll: db.Collection(collActivity)}
}

func (r *ActivityRepository) Insert(ctx context.Context, a *domain.VoteActivity) error {
	doc := activityDoc{
		ID:          a.ID,
		UserID:      a.UserID,
		CandidateID: a.CandidateID,
		VoteID:      a.VoteID,
		Action:      string(a.Action),
		OccurredAt:  a.OccurredAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert vote activity: %w", err)
	}
	return nil
}
