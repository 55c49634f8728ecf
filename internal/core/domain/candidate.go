package domain

import "time"

// CandidateType groups candidates. A user may back only one candidate per type.
type CandidateType struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// Candidate is an entity users vote for. TypeID is nil for untyped candidates.
type Candidate struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TypeID    *int64    `json:"typeId"`
	TypeLabel string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasType reports whether the candidate belongs to a candidate type.
func (c *Candidate) HasType() bool {
	return c != nil && c.TypeID != nil
}

// CandidateSummary is the list view of a candidate. VotesCount is derived at
// read time and never stored.
type CandidateSummary struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	CandidateType string `json:"candidateType"`
	VotesCount    int64  `json:"votesCount"`
}

// TopCandidate is one entry of a user's most-voted candidates.
type TopCandidate struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	VotesCount int64  `json:"votesCount"`
}
