package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type createCandidateRequest struct {
	Name    string `json:"name"    validate:"required,notblank"`
	TypeID  *int64 `json:"typeId"  validate:"omitempty,gt=0"`
	NewType string `json:"newType"`
}

type renameCandidateRequest struct {
	Name string `json:"name" validate:"required,notblank"`
}

type createCandidateTypeRequest struct {
	Type string `json:"type" validate:"required,notblank"`
}

type castVoteRequest struct {
	CandidateID int64 `json:"candidateId" validate:"required,gt=0"`
}

type updateUserRequest struct {
	Name string `json:"name" validate:"required,notblank"`
}

type totalVotesResponse struct {
	TotalVotes int64 `json:"totalVotes"`
}
