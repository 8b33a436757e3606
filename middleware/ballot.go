// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labongofred/E-voting-system-backend/auth"
	"github.com/labongofred/E-voting-system-backend/models"
)

type contextKey string

const ballotContextKey contextKey = "ballot"

// Ballot carries the authenticated credential through the request context.
// The raw token is kept alongside the claims because the casting
// transaction re-checks the full token value, not just the id.
type Ballot struct {
	Claims *auth.BallotClaims
	Token  string
}

// BallotFrom returns the authenticated ballot credential attached by
// RequireBallot, or nil if the request did not pass through the gate.
func BallotFrom(r *http.Request) *Ballot {
	b, _ := r.Context().Value(ballotContextKey).(*Ballot)
	return b
}

// RequireBallot authenticates the single-use ballot credential before any
// casting operation. It is strictly advisory: it rejects bad credentials
// but never marks consumption itself. Consumption is set inside the vote
// transaction, so a voter whose request dies between gate and cast has
// not burned their credential.
func RequireBallot(db *sql.DB, secret []byte, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			ErrorResponse(w, http.StatusUnauthorized, models.CodeMissingCredential, "Access denied. No ballot token provided.")
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := auth.ParseBallotToken(secret, token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				ErrorResponse(w, http.StatusUnauthorized, models.CodeExpired, "Ballot token has expired. Please re-verify to get a new token.")
				return
			}
			ErrorResponse(w, http.StatusUnauthorized, models.CodeInvalidCredential, "Invalid ballot token.")
			return
		}

		// The lookup matches id AND the exact token value. A structurally
		// valid token for the same verification that is no longer the
		// stored one (re-issued credential) must not authenticate.
		var consumedAt sql.NullTime
		err = db.QueryRow(`
			SELECT consumed_at FROM verification
			WHERE id = $1 AND ballot_token = $2
		`, claims.VerificationID, token).Scan(&consumedAt)

		if err == sql.ErrNoRows {
			ErrorResponse(w, http.StatusForbidden, models.CodeRevoked, "Invalid or revoked ballot token.")
			return
		}
		if err != nil {
			slog.Error("failed to check ballot token status", "error", err)
			ErrorResponse(w, http.StatusInternalServerError, models.CodeInternal, "Internal server error during ballot validation.")
			return
		}

		if consumedAt.Valid {
			ErrorResponse(w, http.StatusForbidden, models.CodeAlreadyCast, "Ballot has already been cast using this token.")
			return
		}

		ballot := &Ballot{Claims: claims, Token: token}
		next(w, r.WithContext(context.WithValue(r.Context(), ballotContextKey, ballot)))
	}
}
