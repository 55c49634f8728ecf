package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL  = 5 * time.Second
	defaultLockWait = 3 * time.Second
	lockPoll        = 25 * time.Millisecond
	releaseTimeout  = time.Second
)

// ErrLockTimeout is returned when the lock stays held longer than the wait budget.
var ErrLockTimeout = errors.New("vote lock: wait timed out")

// releaseScript deletes the key only when it still holds our token, so an
// expired lock taken over by another request is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// VoteLock serialises vote casting per user across API instances.
// Key format: vote-lock:<user_id>
type VoteLock struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewVoteLock creates a VoteLock. ttl bounds how long a crashed holder can
// block a user; wait bounds how long a request queues behind another one.
func NewVoteLock(client *redis.Client, ttl, wait time.Duration) *VoteLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if wait <= 0 {
		wait = defaultLockWait
	}
	return &VoteLock{client: client, ttl: ttl, wait: wait}
}

// Lock blocks until the user's lock is acquired, the wait budget runs out, or
// ctx is done. The returned func releases the lock.
func (l *VoteLock) Lock(ctx context.Context, userID int64) (func(), error) {
	key := lockKey(userID)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("vote lock: %w", err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPoll):
		}
	}
}

func (l *VoteLock) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()
	_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
}

func lockKey(userID int64) string {
	return fmt.Sprintf("vote-lock:%d", userID)
}
