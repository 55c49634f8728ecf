package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/votehub/voting-api/internal/core/domain"
)

// Both keys share a hash tag so the scripts stay single-slot on a cluster.
const (
	candidateListKey    = "cache:{candidates}:list"
	candidateGenKey     = "cache:{candidates}:gen"
	defaultCandidateTTL = 30 * time.Second
)

// storeIfCurrent writes the list only while the generation still matches the
// one the caller read before loading from the store.
var storeIfCurrent = redis.NewScript(`
local cur = redis.call('GET', KEYS[1]) or '0'
if cur ~= ARGV[1] then
  return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
return 1
`)

// CandidateCache stores the candidate list view as JSON next to a generation
// counter that every invalidation bumps.
type CandidateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCandidateCache creates a CandidateCache. Entries expire after ttl even if
// no mutation invalidates them.
func NewCandidateCache(client *redis.Client, ttl time.Duration) *CandidateCache {
	if ttl <= 0 {
		ttl = defaultCandidateTTL
	}
	return &CandidateCache{client: client, ttl: ttl}
}

// Get returns the cached list. On a miss it returns the current generation,
// which Set needs.
func (c *CandidateCache) Get(ctx context.Context) ([]domain.CandidateSummary, int64, bool, error) {
	vals, err := c.client.MGet(ctx, candidateGenKey, candidateListKey).Result()
	if err != nil {
		return nil, 0, false, fmt.Errorf("candidate cache get: %w", err)
	}
	gen, err := parseGeneration(vals[0])
	if err != nil {
		return nil, 0, false, err
	}

	raw, ok := vals[1].(string)
	if !ok {
		return nil, gen, false, nil
	}
	var list []domain.CandidateSummary
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, gen, false, fmt.Errorf("candidate cache decode: %w", err)
	}
	return list, gen, true, nil
}

// Set stores list unless Invalidate ran after gen was read.
func (c *CandidateCache) Set(ctx context.Context, gen int64, list []domain.CandidateSummary) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("candidate cache encode: %w", err)
	}
	err = storeIfCurrent.Run(ctx, c.client,
		[]string{candidateGenKey, candidateListKey},
		strconv.FormatInt(gen, 10), raw, c.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("candidate cache set: %w", err)
	}
	return nil
}

// Invalidate bumps the generation and drops the list in one transaction.
func (c *CandidateCache) Invalidate(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, candidateGenKey)
		p.Del(ctx, candidateListKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("candidate cache invalidate: %w", err)
	}
	return nil
}

// parseGeneration reads the MGET value of the generation key. A missing key
// is generation 0.
func parseGeneration(v any) (int64, error) {
	switch s := v.(type) {
	case nil:
		return 0, nil
	case string:
		gen, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("candidate cache generation %q: %w", s, err)
		}
		return gen, nil
	default:
		return 0, fmt.Errorf("candidate cache generation: unexpected %T", v)
	}
}
