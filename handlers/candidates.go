// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/labongofred/E-voting-system-backend/audit"
	"github.com/labongofred/E-voting-system-backend/cliparse"
	"github.com/labongofred/E-voting-system-backend/middleware"
	"github.com/labongofred/E-voting-system-backend/models"
)

// maxUploadBytes bounds a whole nomination submission (photo + manifesto).
const maxUploadBytes = 10 << 20

type CandidateHandler struct {
	db    *sql.DB
	cfg   cliparse.Config
	audit *audit.Recorder
}

func NewCandidateHandler(db *sql.DB, cfg cliparse.Config, rec *audit.Recorder) *CandidateHandler {
	return &CandidateHandler{db: db, cfg: cfg, audit: rec}
}

var allowedUploadExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// saveUpload writes one uploaded file under the configured upload
// directory with a random name and returns its public URL path. The
// original filename contributes only its extension.
func (h *CandidateHandler) saveUpload(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedUploadExt[ext] {
		return "", fmt.Errorf("file type %q not allowed", ext)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(h.cfg.UploadDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return "/uploads/" + name, nil
}

// Nominate handles POST /api/candidate/nominate (multipart form)
func (h *CandidateHandler) Nominate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid multipart form.")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	regNo := strings.TrimSpace(r.FormValue("voter_reg_no"))
	positionIDStr := r.FormValue("position_id")

	if name == "" || regNo == "" || positionIDStr == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "name, voter_reg_no and position_id are required.")
		return
	}

	positionID, err := strconv.ParseInt(positionIDStr, 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid position_id.")
		return
	}

	var exists bool
	err = h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM position WHERE id = $1)`, positionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check position", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to submit nomination.")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Unknown position_id.")
		return
	}

	var photoURL, manifestoURL *string
	if files := r.MultipartForm.File["photo"]; len(files) > 0 {
		url, err := h.saveUpload(files[0])
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "photo: "+err.Error())
			return
		}
		photoURL = &url
	}
	if files := r.MultipartForm.File["manifesto"]; len(files) > 0 {
		url, err := h.saveUpload(files[0])
		if err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "manifesto: "+err.Error())
			return
		}
		manifestoURL = &url
	}

	var candidate models.Candidate
	err = h.db.QueryRow(`
		INSERT INTO candidate (name, voter_reg_no, position_id, photo_url, manifesto_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, voter_reg_no, position_id, status, photo_url, manifesto_url, created_at
	`, name, regNo, positionID, photoURL, manifestoURL).Scan(
		&candidate.ID, &candidate.Name, &candidate.VoterRegNo, &candidate.PositionID,
		&candidate.Status, &candidate.PhotoURL, &candidate.ManifestoURL, &candidate.CreatedAt,
	)
	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to submit nomination.")
		return
	}

	slog.Info("nomination submitted", "candidate_id", candidate.ID, "position_id", positionID)

	middleware.JSONResponse(w, http.StatusCreated, candidate)
}

// ListCandidates handles GET /api/candidate - all nominations, newest first
func (h *CandidateHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT c.id, c.name, c.voter_reg_no, c.position_id, c.status, c.reason,
		       c.photo_url, c.manifesto_url, c.created_at, p.name AS position_name
		FROM candidate c
		JOIN position p ON c.position_id = p.id
		ORDER BY c.created_at DESC
	`)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to fetch candidate nominations.")
		return
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.VoterRegNo, &c.PositionID, &c.Status,
			&c.Reason, &c.PhotoURL, &c.ManifestoURL, &c.CreatedAt, &c.PositionName); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to fetch candidate nominations.")
			return
		}
		candidates = append(candidates, c)
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// ReviewCandidate handles PATCH /api/candidate/{id}/status (admin)
func (h *CandidateHandler) ReviewCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid candidate id.")
		return
	}

	var req models.ReviewCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

	if req.Status != models.CandidateApproved && req.Status != models.CandidateRejected {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Status must be APPROVED or REJECTED.")
		return
	}
	if req.Status == models.CandidateRejected && strings.TrimSpace(req.Reason) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "A reason is required when rejecting a nomination.")
		return
	}

	var reason *string
	if req.Reason != "" {
		reason = &req.Reason
	}

	var candidate models.Candidate
	err = h.db.QueryRow(`
		UPDATE candidate
		SET status = $1, reason = $2
		WHERE id = $3
		RETURNING id, name, voter_reg_no, position_id, status, reason, photo_url, manifesto_url, created_at
	`, req.Status, reason, id).Scan(
		&candidate.ID, &candidate.Name, &candidate.VoterRegNo, &candidate.PositionID,
		&candidate.Status, &candidate.Reason, &candidate.PhotoURL, &candidate.ManifestoURL, &candidate.CreatedAt,
	)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, models.CodeNotFound, "Candidate not found.")
		return
	}
	if err != nil {
		slog.Error("failed to update candidate status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Failed to update nomination.")
		return
	}

	action := audit.ActionNominationApproved
	if req.Status == models.CandidateRejected {
		action = audit.ActionNominationRejected
	}
	h.audit.MustRecord(audit.ActorAdmin, middleware.AdminIDFrom(r), action,
		"candidate", strconv.FormatInt(id, 10), map[string]any{"reason": req.Reason})

	slog.Info("nomination reviewed", "candidate_id", id, "status", req.Status)

	middleware.JSONResponse(w, http.StatusOK, candidate)
}
