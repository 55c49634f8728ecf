package mongo

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/votehub/voting-api/internal/core/domain"
)

func dupKey(index string) error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: voting.votes index: " + index + " dup key",
		}},
	}
}

func TestMapVoteInsertError(t *testing.T) {
	if err := mapVoteInsertError(dupKey(indexUserCandidate), "musician"); !errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}

	err := mapVoteInsertError(dupKey(indexUserType), "musician")
	if !errors.Is(err, domain.ErrTypeConflict) {
		t.Fatalf("expected ErrTypeConflict, got %v", err)
	}
	if !strings.Contains(err.Error(), "musician") {
		t.Fatalf("expected type label in message, got %q", err.Error())
	}

	plain := errors.New("connection reset")
	err = mapVoteInsertError(plain, "")
	if !errors.Is(err, plain) || errors.Is(err, domain.ErrDuplicateVote) {
		t.Fatalf("expected wrapped passthrough, got %v", err)
	}
}

func TestDuplicateOn_OtherIndex(t *testing.T) {
	if duplicateOn(dupKey(indexTypeLabel), indexUserAuth0) {
		t.Fatal("duplicate on a different index must not match")
	}
	if !duplicateOn(dupKey(indexTypeLabel), indexTypeLabel) {
		t.Fatal("expected match on candidate_types_type_key")
	}
}

func TestTopCandidatesPipeline_OrderAndLimit(t *testing.T) {
	ids := []interface{}{int64(4), int64(1), int64(9)}
	p := topCandidatesPipeline(ids, 3)

	stages := make(map[string]interface{}, len(p))
	order := make([]string, 0, len(p))
	for _, stage := range p {
		stages[stage[0].Key] = stage[0].Value
		order = append(order, stage[0].Key)
	}

	wantOrder := []string{"$match", "$lookup", "$project", "$sort", "$limit"}
	if !reflect.DeepEqual(order, wantOrder) {
		t.Fatalf("stage order = %v, want %v", order, wantOrder)
	}

	wantSort := bson.D{{Key: "votes_count", Value: -1}, {Key: "_id", Value: 1}}
	if !reflect.DeepEqual(stages["$sort"], wantSort) {
		t.Fatalf("sort = %v, want %v", stages["$sort"], wantSort)
	}
	if stages["$limit"] != 3 {
		t.Fatalf("limit = %v, want 3", stages["$limit"])
	}
	match := stages["$match"].(bson.M)["_id"].(bson.M)["$in"]
	if !reflect.DeepEqual(match, ids) {
		t.Fatalf("match = %v, want %v", match, ids)
	}
}
