package domain

import "time"

// ActivityAction is the kind of change recorded in the vote audit trail.
type ActivityAction string

const (
	ActivityCast    ActivityAction = "cast"
	ActivityRetract ActivityAction = "retract"
)

// VoteActivity is an append-only audit record of a vote being cast or retracted.
type VoteActivity struct {
	ID          string
	UserID      int64
	CandidateID int64
	VoteID      int64
	Action      ActivityAction
	OccurredAt  time.Time
}
