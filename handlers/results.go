// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/labongofred/E-voting-system-backend/audit"
	"github.com/labongofred/E-voting-system-backend/cliparse"
	"github.com/labongofred/E-voting-system-backend/middleware"
	"github.com/labongofred/E-voting-system-backend/models"
)

type ResultsHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	audit *audit.Recorder
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config, rec *audit.Recorder) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg, audit: rec}
}

// GetTally handles GET /api/results/tally (behind middleware.RequireAdmin)
//
// Recomputed from the ledger on every request; nothing is cached or
// stored. The audit entry names the admin who asked.
func (h *ResultsHandler) GetTally(w http.ResponseWriter, r *http.Request) {
	results, counts, err := ComputeTally(r.Context(), h.db)
	if err != nil {
		slog.Error("failed to compute tally", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to generate election results.")
		return
	}

	h.audit.MustRecord(audit.ActorAdmin, middleware.AdminIDFrom(r), audit.ActionResultsGenerated,
		"vote", "", map[string]any{
			"positions_counted": len(results),
			"total_voters_cast": counts.VotersCast,
		})

	if results == nil {
		results = []models.PositionResult{}
	}

	middleware.JSONResponse(w, http.StatusOK, models.TallyResponse{
		Meta: models.TallyMeta{
			Timestamp:           time.Now().UTC(),
			TotalVotesCast:      counts.VotersCast,
			TotalEligibleVoters: counts.EligibleVoters,
			TurnoutPercentage:   TurnoutPercentage(counts.VotersCast, counts.EligibleVoters),
		},
		Results: results,
	})
}

// GetTurnout handles GET /api/results/turnout (behind middleware.RequireAdmin)
// Lightweight turnout-only view for dashboards polling during the election.
func (h *ResultsHandler) GetTurnout(w http.ResponseWriter, r *http.Request) {
	var votersCast, eligible int

	err := h.db.QueryRow(`
		SELECT
			(SELECT COUNT(id) FROM verification WHERE consumed_at IS NOT NULL),
			(SELECT COUNT(id) FROM eligible_voter WHERE status = 'ELIGIBLE')
	`).Scan(&votersCast, &eligible)
	if err != nil {
		slog.Error("failed to compute turnout", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to compute turnout.")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TallyMeta{
		Timestamp:           time.Now().UTC(),
		TotalVotesCast:      votersCast,
		TotalEligibleVoters: eligible,
		TurnoutPercentage:   TurnoutPercentage(votersCast, eligible),
	})
}
