// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labongofred/E-voting-system-backend/audit"
	"github.com/labongofred/E-voting-system-backend/cliparse"
	"github.com/labongofred/E-voting-system-backend/middleware"
	"github.com/labongofred/E-voting-system-backend/models"
)

type VotingHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	audit *audit.Recorder
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config, rec *audit.Recorder) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg, audit: rec}
}

// CastVotes handles POST /api/voting/cast (behind middleware.RequireBallot)
//
// The whole cast is one transaction: consume the credential, validate the
// selections, insert the vote rows. The consume step is a conditional
// UPDATE on consumed_at, so of any number of concurrent casts with the
// same credential exactly one takes the row and commits; the rest see
// zero rows updated and fail with ALREADY_CAST. A cast that fails
// validation rolls back the consumption too - the credential is only
// burned by a committed ballot.
func (h *VotingHandler) CastVotes(w http.ResponseWriter, r *http.Request) {
	ballot := middleware.BallotFrom(r)
	if ballot == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeMissingCredential, "Access denied. No ballot token provided.")
		return
	}

	var selections []models.VoteSelection
	if err := middleware.ParseJSONBody(r, &selections); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

	if len(selections) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "At least one selection is required.")
		return
	}

	// At most one selection per position.
	seen := make(map[int64]bool, len(selections))
	for _, sel := range selections {
		if sel.PositionID == 0 || sel.CandidateID == 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "position_id and candidate_id are required for every selection.")
			return
		}
		if seen[sel.PositionID] {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidSelection, "Multiple selections for the same position.")
			return
		}
		seen[sel.PositionID] = true
	}

	verificationID := ballot.Claims.VerificationID

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to cast votes.")
		return
	}
	defer tx.Rollback()

	// Consume the credential first. The row lock this takes serializes
	// every concurrent cast with the same token behind this transaction.
	res, err := tx.Exec(`
		UPDATE verification
		SET consumed_at = NOW()
		WHERE id = $1 AND ballot_token = $2 AND consumed_at IS NULL
	`, verificationID, ballot.Token)
	if err != nil {
		slog.Error("failed to consume ballot token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to cast votes.")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusForbidden, models.CodeAlreadyCast, "Ballot has already been cast using this token.")
		return
	}

	for _, sel := range selections {
		var status string
		var positionID int64
		err := tx.QueryRow(`
			SELECT status, position_id FROM candidate WHERE id = $1
		`, sel.CandidateID).Scan(&status, &positionID)

		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidSelection, "Unknown candidate for selection.")
			return
		}
		if err != nil {
			slog.Error("failed to query candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to cast votes.")
			return
		}

		if status != models.CandidateApproved || positionID != sel.PositionID {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeInvalidSelection, "Selection does not match an approved candidate for that position.")
			return
		}

		_, err = tx.Exec(`
			INSERT INTO vote (position_id, candidate_id, verification_id)
			VALUES ($1, $2, $3)
		`, sel.PositionID, sel.CandidateID, verificationID)
		if err != nil {
			slog.Error("failed to insert vote", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to cast votes.")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit vote transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to cast votes.")
		return
	}

	// The audit entry references the verification id only; no voter
	// identity crosses this boundary.
	h.audit.MustRecord(audit.ActorVoter, strconv.FormatInt(verificationID, 10),
		audit.ActionVoteCast, "verification", strconv.FormatInt(verificationID, 10),
		map[string]any{"selections": len(selections)})

	slog.Info("votes cast", "verification_id", verificationID, "selections", len(selections))

	middleware.JSONResponse(w, http.StatusCreated, models.CastVotesResponse{
		Message:       "Votes cast successfully.",
		VotesRecorded: len(selections),
	})
}
