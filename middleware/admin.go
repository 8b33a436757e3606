// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"

	"github.com/labongofred/E-voting-system-backend/auth"
	"github.com/labongofred/E-voting-system-backend/models"
)

const adminIDContextKey contextKey = "adminID"

// AdminIDFrom returns the acting admin's identity attached by RequireAdmin.
func AdminIDFrom(r *http.Request) string {
	id, _ := r.Context().Value(adminIDContextKey).(string)
	return id
}

// RequireAdmin gates an endpoint behind the shared admin key and requires
// the caller to identify itself via X-Admin-ID. The identity is carried on
// the request so audit entries name the actual caller; there is no
// ambient "current admin" anywhere in the process.
func RequireAdmin(adminKey string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := auth.ValidateAdminKey(r.Header.Get("X-Admin-Key"), adminKey); err != nil {
			ErrorResponse(w, http.StatusUnauthorized, models.CodeInvalidCredential, "Invalid admin key.")
			return
		}

		adminID := r.Header.Get("X-Admin-ID")
		if adminID == "" {
			ErrorResponse(w, http.StatusBadRequest, models.CodeValidation, "X-Admin-ID header required")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), adminIDContextKey, adminID)))
	}
}
