package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/votehub/voting-api/internal/core/domain"
	"github.com/votehub/voting-api/internal/core/ports"
)

type CandidateRepository struct {
	db    *mongo.Database
	coll  *mongo.Collection
	votes *mongo.Collection
	log   zerolog.Logger
}

func NewCandidateRepository(db *mongo.Database, log zerolog.Logger) *CandidateRepository {
	return &CandidateRepository{
		db:    db,
		coll:  db.Collection(collCandidates),
		votes: db.Collection(collVotes),
		log:   log,
	}
}

func (r *CandidateRepository) List(ctx context.Context) ([]domain.CandidateSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from": collCandidateTypes, "localField": "type_id", "foreignField": "_id", "as": "type",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": collVotes, "localField": "_id", "foreignField": "candidate_id", "as": "votes",
		}}},
		{{Key: "$project", Value: bson.M{
			"name":           1,
			"candidate_type": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$type.type", 0}}, ""}},
			"votes_count":    bson.M{"$size": "$votes"},
		}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []candidateSummaryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}
	out := make([]domain.CandidateSummary, len(docs))
	for i, d := range docs {
		out[i] = domain.CandidateSummary{
			ID:            d.ID,
			Name:          d.Name,
			CandidateType: d.CandidateType,
			VotesCount:    d.VotesCount,
		}
	}
	return out, nil
}

func (r *CandidateRepository) FindByID(ctx context.Context, id int64) (*domain.Candidate, error) {
	return findCandidate(ctx, r.coll, id)
}

func findCandidate(ctx context.Context, coll *mongo.Collection, id int64) (*domain.Candidate, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$lookup", Value: bson.M{
			"from": collCandidateTypes, "localField": "type_id", "foreignField": "_id", "as": "type",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"type_label": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$type.type", 0}}, ""}},
		}}},
		{{Key: "$project", Value: bson.M{"type": 0}}},
	}
	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find candidate: %w", err)
	}
	defer cursor.Close(ctx)

	if !cursor.Next(ctx) {
		if err := cursor.Err(); err != nil {
			return nil, fmt.Errorf("find candidate: %w", err)
		}
		return nil, domain.ErrCandidateNotFound
	}
	var doc candidateWithTypeDoc
	if err := cursor.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode candidate: %w", err)
	}
	return doc.candidateDoc.toDomain(doc.TypeLabel), nil
}

// Create inserts the candidate, creating its type first when NewType is set.
// MongoDB has no cross-collection transaction on a standalone server, so a
// failed candidate insert removes the type it just created.
func (r *CandidateRepository) Create(ctx context.Context, c ports.NewCandidate) (*domain.Candidate, error) {
	typeID := c.TypeID
	label := ""
	var created *domain.CandidateType
	if typeID == nil {
		t, err := insertType(ctx, r.db, c.NewType)
		if err != nil {
			return nil, err
		}
		created = t
		typeID = &t.ID
		label = t.Type
	}

	id, err := nextID(ctx, r.db, collCandidates)
	if err == nil {
		doc := candidateDoc{ID: id, Name: c.Name, TypeID: typeID, CreatedAt: time.Now().UTC()}
		if _, err = r.coll.InsertOne(ctx, doc); err == nil {
			if created == nil {
				return findCandidate(ctx, r.coll, id)
			}
			return doc.toDomain(label), nil
		}
		err = fmt.Errorf("insert candidate: %w", err)
	}

	if created != nil {
		if _, derr := r.db.Collection(collCandidateTypes).DeleteOne(context.WithoutCancel(ctx), bson.M{"_id": created.ID}); derr != nil {
			r.log.Error().Err(derr).Int64("type_id", created.ID).Msg("remove orphaned candidate type")
		}
	}
	return nil, err
}

func (r *CandidateRepository) Rename(ctx context.Context, id int64, name string) (*domain.Candidate, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return nil, fmt.Errorf("rename candidate: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrCandidateNotFound
	}
	return findCandidate(ctx, r.coll, id)
}

// Delete removes the candidate and every vote cast for it.
func (r *CandidateRepository) Delete(ctx context.Context, id int64) (*domain.Candidate, error) {
	sweep := func(ctx context.Context) error {
		_, err := r.votes.DeleteMany(ctx, bson.M{"candidate_id": id})
		return err
	}
	remove := func(ctx context.Context) (*candidateDoc, error) {
		var doc candidateDoc
		err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCandidateNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("delete candidate: %w", err)
		}
		return &doc, nil
	}

	doc, err := removeCandidate(ctx, sweep, remove, r.log.With().Int64("candidate_id", id).Logger())
	if err != nil {
		return nil, err
	}
	return doc.toDomain(""), nil
}

// removeCandidate sweeps the candidate's votes before and after deleting it.
// The second sweep catches casts confirmed while the candidate still existed.
func removeCandidate(
	ctx context.Context,
	sweep func(context.Context) error,
	remove func(context.Context) (*candidateDoc, error),
	log zerolog.Logger,
) (*candidateDoc, error) {
	if err := sweep(ctx); err != nil {
		return nil, fmt.Errorf("delete candidate votes: %w", err)
	}
	doc, err := remove(ctx)
	if err != nil {
		return nil, err
	}
	if err := sweep(context.WithoutCancel(ctx)); err != nil {
		log.Error().Err(err).Msg("sweep votes after candidate delete")
	}
	return doc, nil
}
