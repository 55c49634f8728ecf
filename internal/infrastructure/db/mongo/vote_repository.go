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
	"github.com/votehub/voting-api/internal/core/ports"
)

type VoteRepository struct {
	db         *mongo.Database
	coll       *mongo.Collection
	users      *mongo.Collection
	candidates *mongo.Collection
}

func NewVoteRepository(db *mongo.Database) *VoteRepository {
	return &VoteRepository{
		db:         db,
		coll:       db.Collection(collVotes),
		users:      db.Collection(collUsers),
		candidates: db.Collection(collCandidates),
	}
}

// Cast runs check against the live collections and inserts the vote. Without
// a row lock the unique indexes on (user_id, candidate_id) and
// (user_id, type_id) decide any race the caller's lock did not prevent. A
// candidate deleted between check and insert takes the new vote with it.
func (r *VoteRepository) Cast(ctx context.Context, userID, candidateID int64, check ports.EligibilityFunc) (*domain.Vote, error) {
	n, err := r.users.CountDocuments(ctx, bson.M{"_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if n == 0 {
		return nil, domain.ErrUserNotFound
	}

	candidate, err := check(ctx, eligibilityReader{r: r})
	if err != nil {
		return nil, err
	}

	id, err := nextID(ctx, r.db, collVotes)
	if err != nil {
		return nil, err
	}
	doc := voteDoc{
		ID:          id,
		UserID:      userID,
		CandidateID: candidate.ID,
		TypeID:      candidate.TypeID,
		CreatedAt:   time.Now().UTC(),
	}
	insert := func(ctx context.Context) error {
		if _, err := r.coll.InsertOne(ctx, doc); err != nil {
			return mapVoteInsertError(err, candidate.TypeLabel)
		}
		return nil
	}
	exists := func(ctx context.Context) (bool, error) {
		n, err := r.candidates.CountDocuments(ctx, bson.M{"_id": candidate.ID}, options.Count().SetLimit(1))
		return n > 0, err
	}
	undo := func(ctx context.Context) error {
		_, err := r.coll.DeleteOne(ctx, bson.M{"_id": doc.ID})
		return err
	}
	if err := insertConfirmed(ctx, insert, exists, undo); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// insertConfirmed runs insert and then checks the candidate is still there.
// When it is gone, or cannot be confirmed, the insert is undone.
func insertConfirmed(
	ctx context.Context,
	insert func(context.Context) error,
	candidateExists func(context.Context) (bool, error),
	undo func(context.Context) error,
) error {
	if err := insert(ctx); err != nil {
		return err
	}

	ok, err := candidateExists(ctx)
	if err == nil && ok {
		return nil
	}

	if uerr := undo(context.WithoutCancel(ctx)); uerr != nil {
		return errors.Join(fmt.Errorf("undo vote: %w", uerr), err)
	}
	if err != nil {
		return fmt.Errorf("confirm candidate: %w", err)
	}
	return domain.ErrCandidateNotFound
}

func mapVoteInsertError(err error, typeLabel string) error {
	switch {
	case duplicateOn(err, indexUserCandidate):
		return domain.ErrDuplicateVote
	case duplicateOn(err, indexUserType):
		return domain.TypeConflictError(typeLabel)
	default:
		return fmt.Errorf("insert vote: %w", err)
	}
}

func (r *VoteRepository) FindByID(ctx context.Context, id int64) (*domain.Vote, error) {
	var doc voteDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("find vote: %w", err)
	}
	return doc.toDomain(), nil
}

// detailStages joins a vote with its user, candidate, and candidate type.
func detailStages() mongo.Pipeline {
	first := func(path string) bson.M {
		return bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{path, 0}}, ""}}
	}
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from": collUsers, "localField": "user_id", "foreignField": "_id", "as": "user",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": collCandidates, "localField": "candidate_id", "foreignField": "_id", "as": "candidate",
		}}},
		{{Key: "$unwind", Value: "$candidate"}},
		{{Key: "$lookup", Value: bson.M{
			"from": collCandidateTypes, "localField": "candidate.type_id", "foreignField": "_id", "as": "type",
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from": collVotes, "localField": "candidate_id", "foreignField": "candidate_id", "as": "peers",
		}}},
		{{Key: "$project", Value: bson.M{
			"user_id":        1,
			"created_at":     1,
			"user_name":      first("$user.name"),
			"candidate_name": "$candidate.name",
			"candidate_type": first("$type.type"),
			"votes_count":    bson.M{"$size": "$peers"},
		}}},
	}
}

func (r *VoteRepository) aggregateDetails(ctx context.Context, match bson.M) ([]voteDetailDoc, error) {
	pipeline := append(mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}, detailStages()...)

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []voteDetailDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *VoteRepository) FindDetail(ctx context.Context, id int64) (*domain.VoteDetail, error) {
	docs, err := r.aggregateDetails(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, fmt.Errorf("find vote detail: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrVoteNotFound
	}
	d := docs[0]
	return &domain.VoteDetail{
		VoteID:        d.ID,
		UserID:        d.UserID,
		UserName:      d.UserName,
		CandidateName: d.CandidateName,
		CandidateType: d.CandidateType,
		CreatedAt:     d.CreatedAt.UTC(),
	}, nil
}

func (r *VoteRepository) Delete(ctx context.Context, id int64) (*domain.Vote, error) {
	var doc voteDoc
	if err := r.coll.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("delete vote: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *VoteRepository) ListAll(ctx context.Context) ([]domain.PublicVote, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from": collCandidates, "localField": "candidate_id", "foreignField": "_id", "as": "candidate",
		}}},
		{{Key: "$unwind", Value: "$candidate"}},
		{{Key: "$project", Value: bson.M{"candidate_id": 1, "candidate_name": "$candidate.name"}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []publicVoteDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode votes: %w", err)
	}
	out := make([]domain.PublicVote, len(docs))
	for i, d := range docs {
		out[i] = domain.PublicVote{
			CandidateID: d.CandidateID,
			Candidate:   domain.PublicVoteItem{ID: d.CandidateID, Name: d.CandidateName},
		}
	}
	return out, nil
}

func (r *VoteRepository) ListByUser(ctx context.Context, userID int64) ([]domain.MyVote, error) {
	docs, err := r.aggregateDetails(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list user votes: %w", err)
	}
	out := make([]domain.MyVote, len(docs))
	for i, d := range docs {
		out[i] = domain.MyVote{
			ID:            d.ID,
			UserName:      d.UserName,
			CandidateName: d.CandidateName,
			CandidateType: d.CandidateType,
			VotesCount:    d.VotesCount,
		}
	}
	return out, nil
}

func (r *VoteRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("count user votes: %w", err)
	}
	return n, nil
}

func (r *VoteRepository) TopCandidatesForUser(ctx context.Context, userID int64, limit int) ([]domain.TopCandidate, error) {
	ids, err := r.coll.Distinct(ctx, "candidate_id", bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("user candidates: %w", err)
	}
	if len(ids) == 0 {
		return []domain.TopCandidate{}, nil
	}

	cursor, err := r.candidates.Aggregate(ctx, topCandidatesPipeline(ids, limit))
	if err != nil {
		return nil, fmt.Errorf("top candidates: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []candidateSummaryDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode top candidates: %w", err)
	}
	out := make([]domain.TopCandidate, len(docs))
	for i, d := range docs {
		out[i] = domain.TopCandidate{ID: d.ID, Name: d.Name, VotesCount: d.VotesCount}
	}
	return out, nil
}

// topCandidatesPipeline ranks the given candidates by their global vote count,
// ties broken by id, and keeps the first limit.
func topCandidatesPipeline(candidateIDs []interface{}, limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$in": candidateIDs}}}},
		{{Key: "$lookup", Value: bson.M{
			"from": collVotes, "localField": "_id", "foreignField": "candidate_id", "as": "votes",
		}}},
		{{Key: "$project", Value: bson.M{"name": 1, "votes_count": bson.M{"$size": "$votes"}}}},
		{{Key: "$sort", Value: bson.D{{Key: "votes_count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

type eligibilityReader struct {
	r *VoteRepository
}

func (e eligibilityReader) FindCandidate(ctx context.Context, candidateID int64) (*domain.Candidate, error) {
	return findCandidate(ctx, e.r.candidates, candidateID)
}

func (e eligibilityReader) HasVoteForCandidate(ctx context.Context, userID, candidateID int64) (bool, error) {
	return e.exists(ctx, bson.M{"user_id": userID, "candidate_id": candidateID})
}

func (e eligibilityReader) HasVoteForType(ctx context.Context, userID, typeID int64) (bool, error) {
	return e.exists(ctx, bson.M{"user_id": userID, "type_id": typeID})
}

func (e eligibilityReader) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := e.r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count votes: %w", err)
	}
	return n > 0, nil
}
