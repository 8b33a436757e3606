// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"database/sql"
	"encoding/csv"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/labongofred/E-voting-system-backend/audit"
	"github.com/labongofred/E-voting-system-backend/cliparse"
	"github.com/labongofred/E-voting-system-backend/middleware"
	"github.com/labongofred/E-voting-system-backend/models"
)

type AdminHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	audit *audit.Recorder
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config, rec *audit.Recorder) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, audit: rec}
}

// Export handles GET /api/admin/exports/{type} (admin)
// type is one of audit, results, turnout.
func (h *AdminHandler) Export(w http.ResponseWriter, r *http.Request) {
	exportType := strings.ToLower(r.PathValue("type"))

	var (
		filename string
		records  [][]string
		err      error
	)

	switch exportType {
	case "audit":
		filename = "audit_log.csv"
		records, err = h.auditRecords()
	case "results":
		filename = "election_results.csv"
		records, err = h.resultsRecords(r)
	case "turnout":
		filename = "voter_turnout.csv"
		records, err = h.turnoutRecords()
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid export type specified. Must be audit, results, or turnout.")
		return
	}

	if err != nil {
		slog.Error("export failed", "type", exportType, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to generate "+exportType+" export.")
		return
	}

	// records[0] is the header row
	if len(records) <= 1 {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "No data found for "+exportType+" export.")
		return
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.WriteAll(records); err != nil {
		slog.Error("failed to write CSV", "type", exportType, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to generate "+exportType+" export.")
		return
	}

	adminID := middleware.AdminIDFrom(r)
	h.audit.MustRecord(audit.ActorAdmin, adminID, strings.ToUpper(exportType)+"_EXPORTED",
		"export", "", map[string]any{"file": filename, "records_exported": len(records) - 1})

	slog.Info("export generated",
		"type", exportType,
		"admin_id", adminID,
		"records", len(records)-1,
		"size", humanize.Bytes(uint64(buf.Len())),
	)

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Write(buf.Bytes())
}

func (h *AdminHandler) auditRecords() ([][]string, error) {
	rows, err := h.db.Query(`
		SELECT id, actor_type, actor_id, action, target_type, target_id, detail, created_at
		FROM audit_log
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := [][]string{{"id", "actor_type", "actor_id", "action", "target_type", "target_id", "detail", "created_at"}}
	for rows.Next() {
		var (
			id                             int64
			actorType, actorID, action, tt string
			targetID, detail               sql.NullString
			createdAt                      time.Time
		)
		if err := rows.Scan(&id, &actorType, &actorID, &action, &tt, &targetID, &detail, &createdAt); err != nil {
			return nil, err
		}
		records = append(records, []string{
			strconv.FormatInt(id, 10), actorType, actorID, action, tt,
			targetID.String, detail.String, createdAt.Format(time.RFC3339),
		})
	}
	return records, rows.Err()
}

func (h *AdminHandler) resultsRecords(r *http.Request) ([][]string, error) {
	results, _, err := ComputeTally(r.Context(), h.db)
	if err != nil {
		return nil, err
	}

	records := [][]string{{"position_id", "position_name", "seats", "candidate_id", "candidate_name", "vote_count", "rank", "result_status"}}
	for _, pos := range results {
		for _, c := range pos.Candidates {
			records = append(records, []string{
				strconv.FormatInt(pos.ID, 10), pos.Name, strconv.Itoa(pos.Seats),
				strconv.FormatInt(c.ID, 10), c.Name, strconv.Itoa(c.VoteCount),
				strconv.Itoa(c.Rank), c.Status,
			})
		}
	}
	return records, nil
}

func (h *AdminHandler) turnoutRecords() ([][]string, error) {
	rows, err := h.db.Query(`
		SELECT ev.reg_no, ev.name, ev.program, ev.email, ev.status, v.consumed_at
		FROM eligible_voter ev
		LEFT JOIN verification v ON ev.id = v.voter_id AND v.consumed_at IS NOT NULL
		ORDER BY ev.name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := [][]string{{"reg_no", "name", "program", "email", "status", "consumed_at", "has_voted"}}
	for rows.Next() {
		var (
			regNo, name    string
			program, email sql.NullString
			status         string
			consumedAt     sql.NullTime
		)
		if err := rows.Scan(&regNo, &name, &program, &email, &status, &consumedAt); err != nil {
			return nil, err
		}

		consumed := ""
		hasVoted := "Not Voted"
		if consumedAt.Valid {
			consumed = consumedAt.Time.Format(time.RFC3339)
			hasVoted = "Voted"
		}
		records = append(records, []string{regNo, name, program.String, email.String, status, consumed, hasVoted})
	}
	return records, rows.Err()
}
