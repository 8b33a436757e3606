// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Voter status constants
const (
	VoterEligible = "ELIGIBLE"
	VoterBlocked  = "BLOCKED"
)

// Candidate status constants
const (
	CandidatePending  = "PENDING"
	CandidateApproved = "APPROVED"
	CandidateRejected = "REJECTED"
)

// Tally result classification
const (
	ResultWinner = "WINNER"
	ResultLoser  = "LOSER"
)

// Stable error codes returned in ErrorResponse.Error. Clients branch on
// these, so they must never change once shipped.
const (
	CodeValidation        = "VALIDATION"
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyConfirmed  = "ALREADY_CONFIRMED"
	CodeExpired           = "EXPIRED"
	CodeVoterBlocked      = "VOTER_BLOCKED"
	CodeInvalidCredential = "INVALID_CREDENTIAL"
	CodeMissingCredential = "MISSING_CREDENTIAL"
	CodeRevoked           = "REVOKED"
	CodeAlreadyCast       = "ALREADY_CAST"
	CodeInvalidSelection  = "INVALID_SELECTION"
	CodeConflict          = "CONFLICT"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL"
)

// Request types

type RequestOTPRequest struct {
	RegNo string `json:"reg_no"`
}

type ConfirmOTPRequest struct {
	VerificationID int64  `json:"verification_id"`
	OTP            string `json:"otp"`
}

// One entry per position the voter is selecting a candidate for.
type VoteSelection struct {
	PositionID  int64 `json:"position_id"`
	CandidateID int64 `json:"candidate_id"`
}

type CreatePositionRequest struct {
	Name  string `json:"name"`
	Seats int    `json:"seats"`
}

type UpdatePositionRequest struct {
	Name  *string `json:"name,omitempty"`
	Seats *int    `json:"seats,omitempty"`
}

type ReviewCandidateRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Response types

type RequestOTPResponse struct {
	VerificationID int64  `json:"verification_id"`
	Message        string `json:"message"`
}

type ConfirmOTPResponse struct {
	Message     string `json:"message"`
	BallotToken string `json:"ballot_token"`
	VoterID     int64  `json:"voter_id"`
}

type CastVotesResponse struct {
	Message       string `json:"message"`
	VotesRecorded int    `json:"votes_recorded"`
}

type TallyMeta struct {
	Timestamp           time.Time `json:"timestamp"`
	TotalVotesCast      int       `json:"total_votes_cast"`
	TotalEligibleVoters int       `json:"total_eligible_voters"`
	TurnoutPercentage   string    `json:"turnout_percentage"`
}

type TallyResponse struct {
	Meta    TallyMeta        `json:"meta"`
	Results []PositionResult `json:"results"`
}

// Domain types

type Voter struct {
	ID      int64  `json:"id"`
	RegNo   string `json:"-"` // Never expose in JSON
	Name    string `json:"-"` // Never expose in JSON
	Program string `json:"-"`
	Email   string `json:"-"`
	Status  string `json:"status"`
}

type Verification struct {
	ID          int64      `json:"id"`
	VoterID     int64      `json:"voter_id"`
	OTPHash     string     `json:"-"` // Never expose in JSON
	IssuedAt    time.Time  `json:"issued_at"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
	BallotToken *string    `json:"-"` // Never expose in JSON
	ConsumedAt  *time.Time `json:"consumed_at,omitempty"`
}

type Position struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Seats     int       `json:"seats"`
	CreatedAt time.Time `json:"created_at"`
}

type Candidate struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	VoterRegNo   string    `json:"voter_reg_no"`
	PositionID   int64     `json:"position_id"`
	PositionName string    `json:"position_name,omitempty"`
	Status       string    `json:"status"`
	Reason       *string   `json:"reason,omitempty"`
	PhotoURL     *string   `json:"photo_url,omitempty"`
	ManifestoURL *string   `json:"manifesto_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Tally types

type CandidateResult struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	VoteCount int    `json:"vote_count"`
	Rank      int    `json:"rank"`
	Status    string `json:"status"` // WINNER or LOSER
}

type PositionResult struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Seats      int               `json:"seats"`
	Candidates []CandidateResult `json:"candidates"`
	Winners    int               `json:"winners"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
