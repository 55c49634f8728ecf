package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/votehub/voting-api/internal/core/domain"
	"github.com/votehub/voting-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory store implementing every repository port. Cast holds the mutex
// for the whole check-and-insert, mirroring the row lock of the real store.
// ---------------------------------------------------------------------------

type memStore struct {
	mu         sync.Mutex
	nextID     int64
	users      map[string]*domain.User
	types      map[int64]*domain.CandidateType
	candidates map[int64]*domain.Candidate
	votes      map[int64]*domain.Vote

	inserts     atomic.Int64 // successful vote inserts
	userLookups atomic.Int64 // FindByAuth0ID calls
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[string]*domain.User),
		types:      make(map[int64]*domain.CandidateType),
		candidates: make(map[int64]*domain.Candidate),
		votes:      make(map[int64]*domain.Vote),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

// --- users ---

func (m *memStore) GetOrCreate(_ context.Context, identity domain.Identity) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[identity.Subject]; ok {
		clone := *u
		return &clone, nil
	}
	now := time.Now().UTC()
	u := &domain.User{ID: m.id(), Auth0ID: identity.Subject, Name: identity.Name, Email: identity.Email, CreatedAt: now, UpdatedAt: now}
	m.users[identity.Subject] = u
	clone := *u
	return &clone, nil
}

func (m *memStore) FindByAuth0ID(_ context.Context, auth0ID string) (*domain.User, error) {
	m.userLookups.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (m *memStore) UpdateName(_ context.Context, auth0ID, name string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[auth0ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name = name
	clone := *u
	return &clone, nil
}

// --- candidate types ---

type memTypes struct{ *memStore }

func (m memTypes) List(context.Context) ([]domain.CandidateType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CandidateType, 0, len(m.types))
	for _, t := range m.types {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memTypes) FindByID(_ context.Context, id int64) (*domain.CandidateType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.types[id]
	if !ok {
		return nil, domain.ErrCandidateTypeNotFound
	}
	clone := *t
	return &clone, nil
}

func (m memTypes) Create(_ context.Context, label string) (*domain.CandidateType, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createTypeLocked(label)
}

func (m *memStore) createTypeLocked(label string) (*domain.CandidateType, error) {
	for _, t := range m.types {
		if t.Type == label {
			return nil, domain.ErrDuplicateType
		}
	}
	t := &domain.CandidateType{ID: m.id(), Type: label}
	m.types[t.ID] = t
	clone := *t
	return &clone, nil
}

// --- candidates ---

type memCandidates struct{ *memStore }

func (m memCandidates) List(context.Context) ([]domain.CandidateSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.CandidateSummary, 0, len(m.candidates))
	for _, c := range m.candidates {
		out = append(out, domain.CandidateSummary{
			ID:            c.ID,
			Name:          c.Name,
			CandidateType: m.labelLocked(c.TypeID),
			VotesCount:    m.countLocked(c.ID),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memCandidates) FindByID(_ context.Context, id int64) (*domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findCandidateLocked(id)
}

func (m memCandidates) Create(_ context.Context, nc ports.NewCandidate) (*domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	typeID := nc.TypeID
	if typeID == nil {
		t, err := m.createTypeLocked(nc.NewType)
		if err != nil {
			return nil, err
		}
		typeID = &t.ID
	}
	c := &domain.Candidate{ID: m.id(), Name: nc.Name, TypeID: typeID, CreatedAt: time.Now().UTC()}
	m.candidates[c.ID] = c
	return m.findCandidateLocked(c.ID)
}

func (m memCandidates) Rename(_ context.Context, id int64, name string) (*domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.candidates[id]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	c.Name = name
	return m.findCandidateLocked(id)
}

func (m memCandidates) Delete(_ context.Context, id int64) (*domain.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, err := m.findCandidateLocked(id)
	if err != nil {
		return nil, err
	}
	delete(m.candidates, id)
	for vid, v := range m.votes {
		if v.CandidateID == id {
			delete(m.votes, vid)
		}
	}
	return c, nil
}

func (m *memStore) findCandidateLocked(id int64) (*domain.Candidate, error) {
	c, ok := m.candidates[id]
	if !ok {
		return nil, domain.ErrCandidateNotFound
	}
	clone := *c
	clone.TypeLabel = m.labelLocked(c.TypeID)
	return &clone, nil
}

func (m *memStore) labelLocked(typeID *int64) string {
	if typeID == nil {
		return ""
	}
	if t, ok := m.types[*typeID]; ok {
		return t.Type
	}
	return ""
}

func (m *memStore) countLocked(candidateID int64) int64 {
	var n int64
	for _, v := range m.votes {
		if v.CandidateID == candidateID {
			n++
		}
	}
	return n
}

// --- votes ---

type memVotes struct{ *memStore }

// lockedReader reads the store while memVotes.Cast holds the mutex.
type lockedReader struct{ m *memStore }

func (r lockedReader) FindCandidate(_ context.Context, id int64) (*domain.Candidate, error) {
	return r.m.findCandidateLocked(id)
}

func (r lockedReader) HasVoteForCandidate(_ context.Context, userID, candidateID int64) (bool, error) {
	for _, v := range r.m.votes {
		if v.UserID == userID && v.CandidateID == candidateID {
			return true, nil
		}
	}
	return false, nil
}

func (r lockedReader) HasVoteForType(_ context.Context, userID, typeID int64) (bool, error) {
	for _, v := range r.m.votes {
		if v.UserID == userID && v.TypeID != nil && *v.TypeID == typeID {
			return true, nil
		}
	}
	return false, nil
}

func (m memVotes) Cast(ctx context.Context, userID, candidateID int64, check ports.EligibilityFunc) (*domain.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	found := false
	for _, u := range m.users {
		if u.ID == userID {
			found = true
			break
		}
	}
	if !found {
		return nil, domain.ErrUserNotFound
	}

	c, err := check(ctx, lockedReader{m: m.memStore})
	if err != nil {
		return nil, err
	}
	v := &domain.Vote{ID: m.id(), UserID: userID, CandidateID: c.ID, TypeID: c.TypeID, CreatedAt: time.Now().UTC()}
	m.votes[v.ID] = v
	m.inserts.Add(1)
	clone := *v
	return &clone, nil
}

func (m memVotes) FindByID(_ context.Context, id int64) (*domain.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.votes[id]
	if !ok {
		return nil, domain.ErrVoteNotFound
	}
	clone := *v
	return &clone, nil
}

func (m memVotes) FindDetail(_ context.Context, id int64) (*domain.VoteDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.votes[id]
	if !ok {
		return nil, domain.ErrVoteNotFound
	}
	c, _ := m.findCandidateLocked(v.CandidateID)
	return &domain.VoteDetail{VoteID: v.ID, UserID: v.UserID, CandidateName: c.Name, CandidateType: c.TypeLabel, CreatedAt: v.CreatedAt}, nil
}

func (m memVotes) Delete(_ context.Context, id int64) (*domain.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.votes[id]
	if !ok {
		return nil, domain.ErrVoteNotFound
	}
	delete(m.votes, id)
	return v, nil
}

func (m memVotes) ListAll(context.Context) ([]domain.PublicVote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.PublicVote, 0, len(m.votes))
	for _, v := range m.votes {
		c := m.candidates[v.CandidateID]
		out = append(out, domain.PublicVote{CandidateID: v.CandidateID, Candidate: domain.PublicVoteItem{ID: c.ID, Name: c.Name}})
	}
	return out, nil
}

func (m memVotes) ListByUser(_ context.Context, userID int64) ([]domain.MyVote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.MyVote
	for _, v := range m.votes {
		if v.UserID != userID {
			continue
		}
		c, _ := m.findCandidateLocked(v.CandidateID)
		out = append(out, domain.MyVote{ID: v.ID, CandidateName: c.Name, CandidateType: c.TypeLabel, VotesCount: m.countLocked(c.ID)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memVotes) CountByUser(_ context.Context, userID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, v := range m.votes {
		if v.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (m memVotes) TopCandidatesForUser(_ context.Context, userID int64, limit int) ([]domain.TopCandidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[int64]bool)
	var out []domain.TopCandidate
	for _, v := range m.votes {
		if v.UserID != userID || seen[v.CandidateID] {
			continue
		}
		seen[v.CandidateID] = true
		c := m.candidates[v.CandidateID]
		out = append(out, domain.TopCandidate{ID: c.ID, Name: c.Name, VotesCount: m.countLocked(c.ID)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VotesCount != out[j].VotesCount {
			return out[i].VotesCount > out[j].VotesCount
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Collaborator stubs
// ---------------------------------------------------------------------------

// memCache applies the same generation rule as the Redis cache: a Set with a
// generation older than the last Invalidate is ignored.
type memCache struct {
	mu            sync.Mutex
	gen           int64
	list          []domain.CandidateSummary
	invalidations atomic.Int64
}

func (c *memCache) Get(context.Context) ([]domain.CandidateSummary, int64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.list == nil {
		return nil, c.gen, false, nil
	}
	return append([]domain.CandidateSummary(nil), c.list...), c.gen, true, nil
}

func (c *memCache) Set(_ context.Context, gen int64, list []domain.CandidateSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.list = append([]domain.CandidateSummary{}, list...)
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.list = nil
	c.invalidations.Add(1)
	return nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	records []domain.VoteActivity
}

func (p *recordingPublisher) Enqueue(a domain.VoteActivity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, a)
}

func (p *recordingPublisher) actions() []domain.ActivityAction {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.ActivityAction, len(p.records))
	for i, r := range p.records {
		out[i] = r.Action
	}
	return out
}
