package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/votehub/voting-api/internal/core/domain"
)

type stubActivityRepo struct {
	mu      sync.Mutex
	records []domain.VoteActivity
	err     error
	block   chan struct{}
}

func (r *stubActivityRepo) Insert(_ context.Context, a *domain.VoteActivity) error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.records = append(r.records, *a)
	return nil
}

func (r *stubActivityRepo) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

func activity(userID, voteID int64) domain.VoteActivity {
	return domain.VoteActivity{
		ID:         "a",
		UserID:     userID,
		VoteID:     voteID,
		Action:     domain.ActivityCast,
		OccurredAt: time.Now().UTC(),
	}
}

func TestDispatcher_PersistsAndDrainsOnShutdown(t *testing.T) {
	repo := &stubActivityRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := int64(1); i <= 50; i++ {
		d.Enqueue(activity(i%7, i))
	}
	cancel()
	d.Wait()

	if got := repo.len(); got != 50 {
		t.Fatalf("expected 50 records persisted, got %d", got)
	}
}

func TestDispatcher_PreservesPerUserOrder(t *testing.T) {
	repo := &stubActivityRepo{}
	d := NewDispatcher(4, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := int64(1); i <= 20; i++ {
		d.Enqueue(activity(9, i))
	}
	cancel()
	d.Wait()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	for i, r := range repo.records {
		if r.VoteID != int64(i+1) {
			t.Fatalf("records out of order at %d: %+v", i, repo.records)
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &stubActivityRepo{block: make(chan struct{})}
	d := NewDispatcher(1, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	// One record is held by the blocked worker; the channel holds the rest.
	total := channelBuffer + 10
	for i := 0; i < total; i++ {
		d.Enqueue(activity(1, int64(i)))
	}

	close(repo.block)
	cancel()
	d.Wait()

	if got := repo.len(); got >= total {
		t.Fatalf("expected some records dropped, persisted %d of %d", got, total)
	}
}

func TestDispatcher_InsertErrorsDoNotStopWorkers(t *testing.T) {
	repo := &stubActivityRepo{err: errors.New("db down")}
	d := NewDispatcher(1, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	d.Enqueue(activity(1, 1))
	d.Enqueue(activity(1, 2))
	cancel()
	d.Wait()

	if repo.len() != 0 {
		t.Fatalf("expected no records stored")
	}
}

func TestShardIndex_Deterministic(t *testing.T) {
	d := NewDispatcher(8, &stubActivityRepo{}, zerolog.Nop())
	for _, id := range []int64{1, 42, 1 << 40} {
		if d.shardIndex(id) != d.shardIndex(id) {
			t.Fatalf("shard for %d not stable", id)
		}
		if idx := d.shardIndex(id); idx < 0 || idx >= 8 {
			t.Fatalf("shard %d out of range", idx)
		}
	}
}
