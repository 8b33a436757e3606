// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - eligible_voter: registration records gating participation
  - verification: OTP issuance attempts and credential lifecycle
  - position: elected offices with seat counts
  - candidate: nominations with review status and uploaded files
  - vote: the append-only vote ledger
  - audit_log: append-only security event log

# Relationships

	eligible_voter 1──* verification
	position 1──* candidate
	position 1──* vote
	candidate 1──* vote
	verification 1──* vote

Votes reference the verification row, never the voter. Nothing in the
vote table links back to a named voter; that separation is the
secret-ballot boundary and must survive any schema change.

# Lifecycle Columns

A verification row moves through three one-way transitions:

	issued_at    set on insert
	verified_at  set once by OTP confirmation (with ballot_token)
	consumed_at  set once by the vote-casting transaction

Rows are never deleted. consumed_at non-null permanently disqualifies
the credential from casting.

# Indexes

Performance indexes on:

  - eligible_voter.reg_no (unique)
  - verification.voter_id, verification.consumed_at
  - candidate.position_id, candidate.status
  - vote.(verification_id, position_id) (unique)
  - audit_log.created_at, audit_log.action
*/
package db
