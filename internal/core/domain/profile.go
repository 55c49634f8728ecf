package domain

// Profile is the composed view of a user, their vote total, and their
// top-voted candidates.
type Profile struct {
	User          *User          `json:"user"`
	TotalVotes    int64          `json:"totalVotes"`
	TopCandidates []TopCandidate `json:"topCandidates"`
}
