// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - RequestOTPRequest: reg_no
  - ConfirmOTPRequest: verification_id, otp
  - VoteSelection: position_id, candidate_id (cast body is a list of these)
  - CreatePositionRequest: name, seats
  - ReviewCandidateRequest: status, reason

# Response Types

Types for JSON responses:

  - RequestOTPResponse: verification_id, message
  - ConfirmOTPResponse: ballot_token, voter_id, message
  - CastVotesResponse: votes_recorded, message
  - TallyResponse: meta (turnout), results (per position)
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Voter: eligibility record (PII fields are never serialized)
  - Verification: one passcode-issuance attempt and its lifecycle timestamps
  - Position: elected office with a seat count
  - Candidate: nomination with review status
  - CandidateResult / PositionResult: ranked tally output

# Constants

Voter status:

	VoterEligible = "ELIGIBLE"
	VoterBlocked  = "BLOCKED"

Candidate status:

	CandidatePending  = "PENDING"
	CandidateApproved = "APPROVED"
	CandidateRejected = "REJECTED"

Tally classification:

	ResultWinner = "WINNER"
	ResultLoser  = "LOSER"

# Error Codes

Every rejection carries one of the Code* constants in ErrorResponse.Error.
These are a wire contract: stable, enumerable, and safe for clients to
branch on. EXPIRED is deliberately distinct from INVALID_CREDENTIAL so a
client can prompt for re-verification instead of showing a generic failure.
*/
package models
