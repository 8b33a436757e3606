// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and helper functions.

# Request Logging

Wrap handlers with request logging:

	mux.HandleFunc("GET /health", middleware.WithLogging(handler))

Logs request start (method, path, remote) and completion (duration_ms).

# Ballot Gate

RequireBallot authenticates the single-use ballot credential before the
casting handler runs:

	mux.HandleFunc("POST /api/voting/cast",
		middleware.WithLogging(middleware.RequireBallot(db, secret, votingHandler.CastVotes)))

It verifies the token signature and expiry, confirms the token is the one
stored for its verification row, and rejects already-consumed credentials
with ALREADY_CAST. It never marks consumption - that happens atomically
inside the casting transaction. Downstream handlers read the credential
with middleware.BallotFrom(r).

# Admin Gate

RequireAdmin checks X-Admin-Key (constant-time) and requires X-Admin-ID,
which downstream handlers read with middleware.AdminIDFrom(r) and use as
the audit actor.

# Rate Limiting

Per-IP token-bucket throttle for the OTP request endpoint:

	limiter := middleware.NewIPRateLimiter(cfg.OTPRateRPS, cfg.OTPRateBurst)
	mux.HandleFunc("POST /api/verify/request",
		middleware.WithLogging(limiter.Limit(verifyHandler.RequestOTP)))

# CORS Middleware

Enable cross-origin requests for frontend access:

	server := http.Server{
		Handler: middleware.CORS(mux),
	}

Allows methods GET, POST, PATCH, DELETE, OPTIONS with headers
Content-Type, Authorization, X-Admin-Key, X-Admin-ID.

# JSON Helpers

Write JSON responses:

	middleware.JSONResponse(w, http.StatusOK, data)
	middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "message")

Every error body carries a stable code from models plus a message.

Parse JSON request bodies:

	var req models.ConfirmOTPRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "Invalid JSON")
		return
	}

# Client IP Extraction

Get the original client IP (handles X-Forwarded-For, X-Real-IP):

	ip := middleware.GetClientIP(r)
*/
package middleware
