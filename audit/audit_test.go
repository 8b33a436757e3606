// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package audit_test

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/labongofred/E-voting-system-backend/audit"
	"github.com/labongofred/E-voting-system-backend/testutil"
)

func TestRecord(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	rec := audit.NewRecorder(conn)

	err := rec.Record(audit.ActorVoter, "42", audit.ActionVoteCast, "verification", "42",
		map[string]any{"selections": 3})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	var (
		actorType, actorID, action string
		targetID, detail           sql.NullString
	)
	err = conn.QueryRow(`
		SELECT actor_type, actor_id, action, target_id, detail
		FROM audit_log ORDER BY id DESC LIMIT 1
	`).Scan(&actorType, &actorID, &action, &targetID, &detail)
	if err != nil {
		t.Fatalf("failed to read audit entry: %v", err)
	}

	if actorType != audit.ActorVoter || actorID != "42" || action != audit.ActionVoteCast {
		t.Errorf("unexpected entry: %s %s %s", actorType, actorID, action)
	}
	if !targetID.Valid || targetID.String != "42" {
		t.Errorf("target_id = %v, want 42", targetID)
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(detail.String), &parsed); err != nil {
		t.Fatalf("detail is not valid JSON: %v", err)
	}
	if parsed["selections"] != float64(3) {
		t.Errorf("detail selections = %v, want 3", parsed["selections"])
	}
}

func TestRecordNilDetail(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	rec := audit.NewRecorder(conn)

	if err := rec.Record(audit.ActorAdmin, "EC-CHAIR-01", audit.ActionResultsGenerated, "vote", "", nil); err != nil {
		t.Fatalf("Record with nil detail failed: %v", err)
	}

	var detail sql.NullString
	err := conn.QueryRow(`SELECT detail FROM audit_log ORDER BY id DESC LIMIT 1`).Scan(&detail)
	if err != nil {
		t.Fatalf("failed to read audit entry: %v", err)
	}
	if detail.Valid {
		t.Errorf("detail = %q, want NULL", detail.String)
	}
}

// MustRecord must never panic or surface sink failures to the caller.
func TestMustRecordSwallowsFailure(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	rec := audit.NewRecorder(conn)
	conn.Close()

	rec.MustRecord(audit.ActorSystem, "system", "SHUTDOWN", "server", "", nil)
}
