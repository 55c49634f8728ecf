package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Constraint names referenced when translating unique violations.
const (
	constraintTypeLabel     = "candidate_types_type_key"
	constraintUserCandidate = "votes_user_candidate_key"
	constraintUserType      = "votes_user_type_key"
)

// Migrate creates all tables and indexes. Safe to call multiple times.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec(schema).Error; err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	return nil
}

// votes.type_id mirrors candidates.type_id at cast time so the partial unique
// index can enforce one vote per type per user.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id BIGSERIAL PRIMARY KEY,
    auth0_id TEXT NOT NULL,
    name TEXT NOT NULL DEFAULT '',
    email TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT users_auth0_id_key UNIQUE (auth0_id)
);

CREATE TABLE IF NOT EXISTS candidate_types (
    id BIGSERIAL PRIMARY KEY,
    type TEXT NOT NULL,
    CONSTRAINT candidate_types_type_key UNIQUE (type)
);

CREATE TABLE IF NOT EXISTS candidates (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    type_id BIGINT REFERENCES candidate_types(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_candidates_type_id ON candidates(type_id);

CREATE TABLE IF NOT EXISTS votes (
    id BIGSERIAL PRIMARY KEY,
    user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    candidate_id BIGINT NOT NULL REFERENCES candidates(id) ON DELETE CASCADE,
    type_id BIGINT REFERENCES candidate_types(id),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT votes_user_candidate_key UNIQUE (user_id, candidate_id)
);

CREATE UNIQUE INDEX IF NOT EXISTS votes_user_type_key ON votes(user_id, type_id) WHERE type_id IS NOT NULL;
CREATE INDEX IF NOT EXISTS idx_votes_candidate_id ON votes(candidate_id);

CREATE TABLE IF NOT EXISTS vote_activity (
    id UUID PRIMARY KEY,
    user_id BIGINT NOT NULL,
    candidate_id BIGINT NOT NULL,
    vote_id BIGINT NOT NULL,
    action TEXT NOT NULL CHECK (action IN ('cast', 'retract')),
    occurred_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_vote_activity_user_id ON vote_activity(user_id);
`
