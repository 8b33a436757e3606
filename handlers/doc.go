// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the election API.

# Handler Types

Each handler is a struct with database, config, and audit dependencies:

  - VerifyHandler: OTP issuance and confirmation
  - VotingHandler: the vote-casting transaction
  - ResultsHandler: tally and turnout
  - PositionHandler: position CRUD
  - CandidateHandler: nominations, uploads, review
  - AdminHandler: CSV exports

Handlers are created via constructor functions:

	verifyHandler := handlers.NewVerifyHandler(db, cfg, rec)

# Voting Flow

A voter moves through three one-way steps:

	POST /api/verify/request → RequestOTP  (verification row, bcrypt OTP hash)
	POST /api/verify/confirm → ConfirmOTP  (single-use ballot token, 2h)
	POST /api/voting/cast    → CastVotes   (consumes the token, writes votes)

ConfirmOTP enforces the 5-minute OTP window before comparing hashes, and
confirms with a conditional UPDATE so the unconfirmed→confirmed
transition happens at most once.

CastVotes runs as one transaction: a conditional UPDATE consumes the
credential (mutual exclusion between concurrent casts with the same
token), selections are validated against approved candidates, and the
vote rows insert - all or nothing. The ballot gate in package middleware
authorizes but never consumes.

# Tally

ComputeTally reads vote counts and turnout from a single repeatable-read
snapshot and ranks candidates per position: descending votes, ties broken
by ascending candidate id, rank <= seats marked WINNER. Results are
recomputed on every request and never stored.

# Administration

Admin endpoints sit behind middleware.RequireAdmin and audit under the
caller's X-Admin-ID:

	GET   /api/results/tally
	POST  /api/position, PATCH/DELETE /api/position/{id}
	PATCH /api/candidate/{id}/status
	GET   /api/admin/exports/{audit|results|turnout}
*/
package handlers
