// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Eligible voters (imported externally; read-only here except status checks)
CREATE TABLE IF NOT EXISTS eligible_voter (
    id BIGSERIAL PRIMARY KEY,
    reg_no TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    program TEXT,
    email TEXT,
    status TEXT NOT NULL DEFAULT 'ELIGIBLE' CHECK (status IN ('ELIGIBLE', 'BLOCKED'))
);

CREATE INDEX IF NOT EXISTS idx_eligible_voter_status ON eligible_voter(status);

-- Verifications: one row per OTP issuance, retained forever for audit.
-- verified_at / ballot_token are set together by confirmation;
-- consumed_at is set once by the vote-casting transaction.
CREATE TABLE IF NOT EXISTS verification (
    id BIGSERIAL PRIMARY KEY,
    voter_id BIGINT NOT NULL REFERENCES eligible_voter(id),
    otp_hash TEXT NOT NULL,
    issued_at TIMESTAMP NOT NULL DEFAULT NOW(),
    verified_at TIMESTAMP,
    ballot_token TEXT,
    consumed_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_verification_voter_id ON verification(voter_id);
CREATE INDEX IF NOT EXISTS idx_verification_consumed_at ON verification(consumed_at);

-- Positions
CREATE TABLE IF NOT EXISTS position (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    seats INT NOT NULL CHECK (seats >= 1),
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

-- Candidates
CREATE TABLE IF NOT EXISTS candidate (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL,
    voter_reg_no TEXT NOT NULL,
    position_id BIGINT NOT NULL REFERENCES position(id) ON DELETE CASCADE,
    status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING', 'APPROVED', 'REJECTED')),
    reason TEXT,
    photo_url TEXT,
    manifesto_url TEXT,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_candidate_position_id ON candidate(position_id);
CREATE INDEX IF NOT EXISTS idx_candidate_status ON candidate(status);

-- Votes: reference the verification (credential), never the voter.
-- The UNIQUE constraint is a database-level backstop for the
-- one-selection-per-position rule enforced in the casting transaction.
CREATE TABLE IF NOT EXISTS vote (
    id BIGSERIAL PRIMARY KEY,
    position_id BIGINT NOT NULL REFERENCES position(id),
    candidate_id BIGINT NOT NULL REFERENCES candidate(id),
    verification_id BIGINT NOT NULL REFERENCES verification(id),
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),
    UNIQUE (verification_id, position_id)
);

CREATE INDEX IF NOT EXISTS idx_vote_candidate_id ON vote(candidate_id);
CREATE INDEX IF NOT EXISTS idx_vote_position_id ON vote(position_id);

-- Audit log: append-only
CREATE TABLE IF NOT EXISTS audit_log (
    id BIGSERIAL PRIMARY KEY,
    actor_type TEXT NOT NULL,
    actor_id TEXT NOT NULL,
    action TEXT NOT NULL,
    target_type TEXT NOT NULL,
    target_id TEXT,
    detail JSONB,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_audit_log_created_at ON audit_log(created_at);
CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
`
