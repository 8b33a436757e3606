// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/labongofred/E-voting-system-backend/audit"
	"github.com/labongofred/E-voting-system-backend/cliparse"
	"github.com/labongofred/E-voting-system-backend/handlers"
	"github.com/labongofred/E-voting-system-backend/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	rec := audit.NewRecorder(db)
	secret := []byte(cfg.JWTSecret)

	// Initialize handlers
	verifyHandler := handlers.NewVerifyHandler(db, cfg, rec)
	votingHandler := handlers.NewVotingHandler(db, cfg, rec)
	resultsHandler := handlers.NewResultsHandler(db, cfg, rec)
	positionHandler := handlers.NewPositionHandler(db, cfg)
	candidateHandler := handlers.NewCandidateHandler(db, cfg, rec)
	adminHandler := handlers.NewAdminHandler(db, cfg, rec)

	otpLimiter := middleware.NewIPRateLimiter(cfg.OTPRateRPS, cfg.OTPRateBurst)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Voter verification (public, OTP request throttled per IP)
	mux.HandleFunc("POST /api/verify/request", middleware.WithLogging(otpLimiter.Limit(verifyHandler.RequestOTP)))
	mux.HandleFunc("POST /api/verify/confirm", middleware.WithLogging(verifyHandler.ConfirmOTP))

	// Vote casting (requires a live ballot token)
	mux.HandleFunc("POST /api/voting/cast",
		middleware.WithLogging(middleware.RequireBallot(db, secret, votingHandler.CastVotes)))

	// Results (admin)
	mux.HandleFunc("GET /api/results/tally",
		middleware.WithLogging(middleware.RequireAdmin(cfg.AdminAPIKey, resultsHandler.GetTally)))
	mux.HandleFunc("GET /api/results/turnout",
		middleware.WithLogging(middleware.RequireAdmin(cfg.AdminAPIKey, resultsHandler.GetTurnout)))

	// Positions (list public, mutations admin)
	mux.HandleFunc("GET /api/position", middleware.WithLogging(positionHandler.ListPositions))
	mux.HandleFunc("POST /api/position",
		middleware.WithLogging(middleware.RequireAdmin(cfg.AdminAPIKey, positionHandler.CreatePosition)))
	mux.HandleFunc("PATCH /api/position/{id}",
		middleware.WithLogging(middleware.RequireAdmin(cfg.AdminAPIKey, positionHandler.UpdatePosition)))
	mux.HandleFunc("DELETE /api/position/{id}",
		middleware.WithLogging(middleware.RequireAdmin(cfg.AdminAPIKey, positionHandler.DeletePosition)))

	// Candidate nominations (submit/list public, review admin)
	mux.HandleFunc("POST /api/candidate/nominate", middleware.WithLogging(candidateHandler.Nominate))
	mux.HandleFunc("GET /api/candidate", middleware.WithLogging(candidateHandler.ListCandidates))
	mux.HandleFunc("PATCH /api/candidate/{id}/status",
		middleware.WithLogging(middleware.RequireAdmin(cfg.AdminAPIKey, candidateHandler.ReviewCandidate)))

	// Exports (admin)
	mux.HandleFunc("GET /api/admin/exports/{type}",
		middleware.WithLogging(middleware.RequireAdmin(cfg.AdminAPIKey, adminHandler.Export)))

	// Uploaded nomination files
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadDir))))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("e-voting API v1"))
	})

	return mux
}
