package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/votehub/voting-api/internal/core/domain"
	"github.com/votehub/voting-api/internal/core/ports"
)

func TestCandidateService_CreateWithNewType(t *testing.T) {
	f := newFixture(t)
	c := f.candidate(t, "  <b>Ann</b> ", "musician")

	if c.Name != "Ann" {
		t.Fatalf("expected sanitised name, got %q", c.Name)
	}
	if !c.HasType() || c.TypeLabel != "musician" {
		t.Fatalf("expected musician type, got %+v", c)
	}
	if f.cache.invalidations.Load() != 1 {
		t.Fatalf("expected cache invalidation on create")
	}
}

func TestCandidateService_DistinctNewTypes(t *testing.T) {
	f := newFixture(t)
	a := f.candidate(t, "A", "musician")
	b := f.candidate(t, "B", "Musician")

	if *a.TypeID == *b.TypeID {
		t.Fatal("labels differing in case must create distinct types")
	}
}

func TestCandidateService_DuplicateNewType(t *testing.T) {
	f := newFixture(t)
	f.candidate(t, "A", "musician")

	_, err := f.candidates.Create(context.Background(), ports.CreateCandidateInput{Name: "B", NewType: "musician"})
	if !errors.Is(err, domain.ErrDuplicateType) {
		t.Fatalf("expected ErrDuplicateType, got %v", err)
	}
}

func TestCandidateService_CreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	missing := int64(404)
	zero := int64(0)

	cases := []struct {
		name string
		in   ports.CreateCandidateInput
		want error
	}{
		{"no type", ports.CreateCandidateInput{Name: "A"}, domain.ErrValidation},
		{"blank name", ports.CreateCandidateInput{Name: "  ", NewType: "musician"}, domain.ErrValidation},
		{"markup only", ports.CreateCandidateInput{Name: "<script></script>", NewType: "musician"}, domain.ErrValidation},
		{"zero type id", ports.CreateCandidateInput{Name: "A", TypeID: &zero}, domain.ErrValidation},
		{"unknown type id", ports.CreateCandidateInput{Name: "A", TypeID: &missing}, domain.ErrCandidateTypeNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.candidates.Create(ctx, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCandidateService_TypeIDWinsOverNewType(t *testing.T) {
	f := newFixture(t)
	a := f.candidate(t, "A", "musician")

	c, err := f.candidates.Create(context.Background(), ports.CreateCandidateInput{Name: "B", TypeID: a.TypeID, NewType: "actor"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if *c.TypeID != *a.TypeID {
		t.Fatalf("expected existing type, got %d", *c.TypeID)
	}
	types, _ := memTypes{f.store}.List(context.Background())
	if len(types) != 1 {
		t.Fatalf("no new type must be created, got %v", types)
	}
}

func TestCandidateService_DeleteCascadesVotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "auth0|u")
	a := f.candidate(t, "A", "musician")
	if _, err := f.votes.Cast(ctx, "auth0|u", a.ID); err != nil {
		t.Fatalf("cast: %v", err)
	}

	if _, err := f.candidates.Delete(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	n, _ := f.votes.CountMine(ctx, "auth0|u")
	if n != 0 {
		t.Fatalf("expected votes removed with candidate, got %d", n)
	}
	if _, err := f.candidates.Delete(ctx, a.ID); !errors.Is(err, domain.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}

func TestCandidateService_RenameMissing(t *testing.T) {
	f := newFixture(t)
	if _, err := f.candidates.Rename(context.Background(), 77, "Z"); !errors.Is(err, domain.ErrCandidateNotFound) {
		t.Fatalf("expected ErrCandidateNotFound, got %v", err)
	}
}

func TestCandidateService_ListServedFromCache(t *testing.T) {
	store := newMemStore()
	cache := &memCache{list: []domain.CandidateSummary{{ID: 1, Name: "cached"}}}
	svc := NewCandidateService(memCandidates{store}, memTypes{store}, cache, zerolog.Nop())

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "cached" {
		t.Fatalf("expected cached list, got %+v", list)
	}
}

func TestCandidateService_ListCountsFollowVotes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "auth0|a")
	f.user(t, "auth0|b")
	c := f.candidate(t, "A", "musician")

	assertCount := func(want int64) {
		t.Helper()
		list, err := f.candidates.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 1 || list[0].VotesCount != want {
			t.Fatalf("expected votesCount %d, got %+v", want, list)
		}
	}

	assertCount(0)
	first, err := f.votes.Cast(ctx, "auth0|a", c.ID)
	if err != nil {
		t.Fatalf("cast: %v", err)
	}
	assertCount(1)
	if _, err := f.votes.Cast(ctx, "auth0|b", c.ID); err != nil {
		t.Fatalf("cast: %v", err)
	}
	assertCount(2)
	if _, err := f.votes.Retract(ctx, "auth0|a", first.ID); err != nil {
		t.Fatalf("retract: %v", err)
	}
	assertCount(1)
}

// pausingCandidates stops the first List after it has read the store until
// release is closed.
type pausingCandidates struct {
	memCandidates
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (p *pausingCandidates) List(ctx context.Context) ([]domain.CandidateSummary, error) {
	list, err := p.memCandidates.List(ctx)
	p.once.Do(func() {
		close(p.read)
		<-p.release
	})
	return list, err
}

func TestCandidateService_ListSkipsCacheWriteAfterInvalidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.user(t, "auth0|u")
	c := f.candidate(t, "A", "musician")

	repo := &pausingCandidates{
		memCandidates: memCandidates{f.store},
		read:          make(chan struct{}),
		release:       make(chan struct{}),
	}
	svc := NewCandidateService(repo, memTypes{f.store}, f.cache, zerolog.Nop())

	done := make(chan []domain.CandidateSummary, 1)
	go func() {
		list, err := svc.List(ctx)
		if err != nil {
			t.Errorf("list: %v", err)
		}
		done <- list
	}()

	<-repo.read
	if _, err := f.votes.Cast(ctx, "auth0|u", c.ID); err != nil {
		t.Fatalf("cast: %v", err)
	}
	close(repo.release)
	if old := <-done; len(old) != 1 || old[0].VotesCount != 0 {
		t.Fatalf("expected the in-flight read to see 0 votes, got %+v", old)
	}

	list, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].VotesCount != 1 {
		t.Fatalf("stale list served after a vote: %+v", list)
	}
}

func TestCandidateTypeService_CreateKeepsCandidateCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.candidate(t, "A", "musician")
	if _, err := f.candidates.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}
	before := f.cache.invalidations.Load()

	types := NewCandidateTypeService(memTypes{f.store}, zerolog.Nop())
	if _, err := types.Create(ctx, "actor"); err != nil {
		t.Fatalf("create type: %v", err)
	}
	if f.cache.invalidations.Load() != before {
		t.Fatal("creating a type must not invalidate the candidate list")
	}
	list, err := f.candidates.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].CandidateType != "musician" {
		t.Fatalf("unexpected list after type create: %+v", list)
	}
}

func TestCandidateTypeService_Create(t *testing.T) {
	store := newMemStore()
	svc := NewCandidateTypeService(memTypes{store}, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "musician"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "musician"); !errors.Is(err, domain.ErrDuplicateType) {
		t.Fatalf("expected ErrDuplicateType, got %v", err)
	}
	if _, err := svc.Create(ctx, " "); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
