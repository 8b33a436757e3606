// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labongofred/E-voting-system-backend/cliparse"
	"github.com/labongofred/E-voting-system-backend/middleware"
	"github.com/labongofred/E-voting-system-backend/models"
)

type PositionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewPositionHandler(db *sql.DB, cfg cliparse.Config) *PositionHandler {
	return &PositionHandler{db: db, cfg: cfg}
}

// CreatePosition handles POST /api/position (admin)
func (h *PositionHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePositionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Position name is required.")
		return
	}
	if req.Seats < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Seats must be at least 1.")
		return
	}

	var position models.Position
	err := h.db.QueryRow(`
		INSERT INTO position (name, seats)
		VALUES ($1, $2)
		RETURNING id, name, seats, created_at
	`, req.Name, req.Seats).Scan(&position.ID, &position.Name, &position.Seats, &position.CreatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			middleware.ErrorResponse(w, http.StatusConflict, models.CodeConflict, "A position with that name already exists.")
			return
		}
		slog.Error("failed to insert position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to create position.")
		return
	}

	slog.Info("position created", "position_id", position.ID, "name", position.Name)

	middleware.JSONResponse(w, http.StatusCreated, position)
}

// ListPositions handles GET /api/position
func (h *PositionHandler) ListPositions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, name, seats, created_at FROM position ORDER BY id
	`)
	if err != nil {
		slog.Error("failed to query positions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to fetch positions.")
		return
	}
	defer rows.Close()

	positions := []models.Position{}
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.ID, &p.Name, &p.Seats, &p.CreatedAt); err != nil {
			slog.Error("failed to scan position", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to fetch positions.")
			return
		}
		positions = append(positions, p)
	}

	middleware.JSONResponse(w, http.StatusOK, positions)
}

// UpdatePosition handles PATCH /api/position/{id} (admin)
func (h *PositionHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid position id.")
		return
	}

	var req models.UpdatePositionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

	if req.Name == nil && req.Seats == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Nothing to update.")
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Position name cannot be empty.")
		return
	}
	if req.Seats != nil && *req.Seats < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Seats must be at least 1.")
		return
	}

	var position models.Position
	err = h.db.QueryRow(`
		UPDATE position
		SET name = COALESCE($1, name), seats = COALESCE($2, seats)
		WHERE id = $3
		RETURNING id, name, seats, created_at
	`, req.Name, req.Seats, id).Scan(&position.ID, &position.Name, &position.Seats, &position.CreatedAt)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Position not found.")
		return
	}
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			middleware.ErrorResponse(w, http.StatusConflict, models.CodeConflict, "A position with that name already exists.")
			return
		}
		slog.Error("failed to update position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to update position.")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, position)
}

// DeletePosition handles DELETE /api/position/{id} (admin)
// Refused once votes exist for the position: the ledger is append-only
// and deleting its referents would orphan it.
func (h *PositionHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid position id.")
		return
	}

	var voteCount int
	err = h.db.QueryRow(`SELECT COUNT(id) FROM vote WHERE position_id = $1`, id).Scan(&voteCount)
	if err != nil {
		slog.Error("failed to count votes for position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to delete position.")
		return
	}
	if voteCount > 0 {
		middleware.ErrorResponse(w, http.StatusConflict, models.CodeConflict, "Position has recorded votes and cannot be deleted.")
		return
	}

	res, err := h.db.Exec(`DELETE FROM position WHERE id = $1`, id)
	if err != nil {
		slog.Error("failed to delete position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to delete position.")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Position not found.")
		return
	}

	slog.Info("position deleted", "position_id", id)

	w.WriteHeader(http.StatusNoContent)
}
