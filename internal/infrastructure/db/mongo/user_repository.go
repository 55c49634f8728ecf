package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/votehub/voting-api/internal/core/domain"
)

type UserRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{db: db, coll: db.Collection(collUsers)}
}

// GetOrCreate upserts on auth0_id with $setOnInsert. Two racing upserts of the
// same subject collide on the unique index; the loser reads the winner's row.
func (r *UserRepository) GetOrCreate(ctx context.Context, identity domain.Identity) (*domain.User, error) {
	if u, err := r.FindByAuth0ID(ctx, identity.Subject); err == nil {
		return u, nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	id, err := nextID(ctx, r.db, collUsers)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	insert := bson.M{
		"_id":        id,
		"name":       identity.Name,
		"email":      identity.Email,
		"created_at": now,
		"updated_at": now,
	}

	var doc userDoc
	err = r.coll.FindOneAndUpdate(ctx,
		bson.M{"auth0_id": identity.Subject},
		bson.M{"$setOnInsert": insert},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if duplicateOn(err, indexUserAuth0) {
			return r.FindByAuth0ID(ctx, identity.Subject)
		}
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByAuth0ID(ctx context.Context, auth0ID string) (*domain.User, error) {
	var doc userDoc
	if err := r.coll.FindOne(ctx, bson.M{"auth0_id": auth0ID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) UpdateName(ctx context.Context, auth0ID, name string) (*domain.User, error) {
	var doc userDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"auth0_id": auth0ID},
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}
