package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultTimeout = 10 * time.Second

const (
	collUsers          = "users"
	collCandidateTypes = "candidate_types"
	collCandidates     = "candidates"
	collVotes          = "votes"
	collActivity       = "vote_activity"
	collCounters       = "counters"
)

// Index names double as the keys used to translate duplicate key errors.
const (
	indexUserAuth0     = "users_auth0_id_key"
	indexTypeLabel     = "candidate_types_type_key"
	indexUserCandidate = "votes_user_candidate_key"
	indexUserType      = "votes_user_type_key"
)

// Config captures the minimal settings required to establish a MongoDB connection.
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Connect establishes a MongoDB client, verifies connectivity with a ping, and
// returns both the client and the selected database. A default timeout is
// applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.Database)
	return client, db, nil
}

// EnsureIndexes creates the unique indexes that carry the voting invariants.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	specs := map[string][]mongo.IndexModel{
		collUsers: {
			{Keys: bson.D{{Key: "auth0_id", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexUserAuth0)},
		},
		collCandidateTypes: {
			{Keys: bson.D{{Key: "type", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexTypeLabel)},
		},
		collVotes: {
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "candidate_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(indexUserCandidate),
			},
			{
				Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "type_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName(indexUserType).
					SetPartialFilterExpression(bson.M{"type_id": bson.M{"$exists": true}}),
			},
			{Keys: bson.D{{Key: "candidate_id", Value: 1}}},
		},
		collActivity: {
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
	}

	for coll, models := range specs {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("mongo indexes %s: %w", coll, err)
		}
	}
	return nil
}

// nextID returns the next value of the named sequence. Entities keep integer
// ids so both stores expose the same API.
func nextID(ctx context.Context, db *mongo.Database, name string) (int64, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := db.Collection(collCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", name, err)
	}
	return counter.Seq, nil
}

// Health adapts a database handle to the readiness probe.
type Health struct {
	db *mongo.Database
}

func NewHealth(db *mongo.Database) Health {
	return Health{db: db}
}

func (h Health) Ping(ctx context.Context) error {
	return h.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
