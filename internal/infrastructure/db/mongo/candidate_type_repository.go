package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/votehub/voting-api/internal/core/domain"
)

type CandidateTypeRepository struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewCandidateTypeRepository(db *mongo.Database) *CandidateTypeRepository {
	return &CandidateTypeRepository{db: db, coll: db.Collection(collCandidateTypes)}
}

func (r *CandidateTypeRepository) List(ctx context.Context) ([]domain.CandidateType, error) {
	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list candidate types: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []candidateTypeDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode candidate types: %w", err)
	}
	out := make([]domain.CandidateType, len(docs))
	for i, d := range docs {
		out[i] = domain.CandidateType{ID: d.ID, Type: d.Type}
	}
	return out, nil
}

func (r *CandidateTypeRepository) FindByID(ctx context.Context, id int64) (*domain.CandidateType, error) {
	var doc candidateTypeDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCandidateTypeNotFound
		}
		return nil, fmt.Errorf("find candidate type: %w", err)
	}
	return &domain.CandidateType{ID: doc.ID, Type: doc.Type}, nil
}

func (r *CandidateTypeRepository) Create(ctx context.Context, label string) (*domain.CandidateType, error) {
	return insertType(ctx, r.db, label)
}

func insertType(ctx context.Context, db *mongo.Database, label string) (*domain.CandidateType, error) {
	id, err := nextID(ctx, db, collCandidateTypes)
	if err != nil {
		return nil, err
	}
	doc := candidateTypeDoc{ID: id, Type: label}
	if _, err := db.Collection(collCandidateTypes).InsertOne(ctx, doc); err != nil {
		if duplicateOn(err, indexTypeLabel) {
			return nil, domain.ErrDuplicateType
		}
		return nil, fmt.Errorf("insert candidate type: %w", err)
	}
	return &domain.CandidateType{ID: doc.ID, Type: doc.Type}, nil
}
