// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Actor types
const (
	ActorVoter  = "VOTER"
	ActorAdmin  = "ADMIN"
	ActorSystem = "SYSTEM"
)

// Actions recorded by the core. Peripheral handlers add their own.
const (
	ActionOTPIssued          = "OTP_ISSUED"
	ActionOTPConfirmExpired  = "OTP_CONFIRM_EXPIRED"
	ActionOTPConfirmBlocked  = "OTP_CONFIRM_BLOCKED"
	ActionOTPConfirmFailed   = "OTP_CONFIRM_FAILED"
	ActionBallotTokenIssued  = "BALLOT_TOKEN_ISSUED"
	ActionVoteCast           = "VOTE_CAST"
	ActionResultsGenerated   = "RESULTS_GENERATED"
	ActionNominationApproved = "NOMINATION_APPROVED"
	ActionNominationRejected = "NOMINATION_REJECTED"
)

// Recorder appends entries to the audit_log table.
type Recorder struct {
	db *sql.DB
}

func NewRecorder(db *sql.DB) *Recorder {
	return &Recorder{db: db}
}

// Record appends one audit entry. detail may be nil. The returned error is
// informational: callers log it and carry on, because the outcome of the
// business operation is already decided by the time the audit write runs
// and must not be masked or rolled back by a failing sink.
func (r *Recorder) Record(actorType, actorID, action, targetType, targetID string, detail map[string]any) error {
	var detailJSON any
	if detail != nil {
		b, err := json.Marshal(detail)
		if err != nil {
			return fmt.Errorf("failed to marshal audit detail: %w", err)
		}
		detailJSON = b
	}

	var target any
	if targetID != "" {
		target = targetID
	}

	_, err := r.db.Exec(`
		INSERT INTO audit_log (actor_type, actor_id, action, target_type, target_id, detail)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, actorType, actorID, action, targetType, target, detailJSON)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// MustRecord is Record with the best-effort policy applied: failures are
// logged at Warn and swallowed.
func (r *Recorder) MustRecord(actorType, actorID, action, targetType, targetID string, detail map[string]any) {
	if err := r.Record(actorType, actorID, action, targetType, targetID, detail); err != nil {
		slog.Warn("audit write failed", "action", action, "actor_id", actorID, "error", err)
	}
}
