// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labongofred/E-voting-system-backend/models"
)

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		expected   string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "192.168.1.10:54321",
			expected:   "192.168.1.10",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5"},
			expected:   "203.0.113.5",
		},
		{
			name:       "x-forwarded-for chain",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.5, 70.41.3.18"},
			expected:   "203.0.113.5",
		},
		{
			name:       "x-real-ip",
			remoteAddr: "10.0.0.1:1234",
			headers:    map[string]string{"X-Real-IP": "198.51.100.7"},
			expected:   "198.51.100.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := GetClientIP(req); got != tt.expected {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorResponseCarriesCode(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusConflict, models.CodeAlreadyCast, "Ballot has already been cast using this token.")

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Code, http.StatusConflict)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body models.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Error != models.CodeAlreadyCast {
		t.Errorf("error code = %q, want %q", body.Error, models.CodeAlreadyCast)
	}
	if body.Message == "" {
		t.Error("expected a human-readable message")
	}
}

func TestCORSPreflights(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight should not reach the wrapped handler")
	}))

	req := httptest.NewRequest("OPTIONS", "/api/voting/cast", nil)
	req.Header.Set("Origin", "https://vote.example.edu")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("preflight status = %d, want %d", w.Code, http.StatusOK)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://vote.example.edu" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 2) // effectively no refill during the test

	if !limiter.Allow("1.2.3.4") {
		t.Error("first request should pass")
	}
	if !limiter.Allow("1.2.3.4") {
		t.Error("second request (within burst) should pass")
	}
	if limiter.Allow("1.2.3.4") {
		t.Error("third request should be throttled")
	}

	// A different IP has its own bucket
	if !limiter.Allow("5.6.7.8") {
		t.Error("unrelated IP should not be throttled")
	}
}

func TestIPRateLimiterMiddleware(t *testing.T) {
	limiter := NewIPRateLimiter(0.001, 1)

	var hits int
	handler := limiter.Limit(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/api/verify/request", nil)
		req.RemoteAddr = "9.9.9.9:1000"
		w := httptest.NewRecorder()
		handler(w, req)

		if i == 0 && w.Code != http.StatusOK {
			t.Errorf("first request status = %d, want 200", w.Code)
		}
		if i > 0 {
			if w.Code != http.StatusTooManyRequests {
				t.Errorf("request %d status = %d, want 429", i+1, w.Code)
			}
			var body models.ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to decode error body: %v", err)
			}
			if body.Error != models.CodeRateLimited {
				t.Errorf("error code = %q, want %q", body.Error, models.CodeRateLimited)
			}
		}
	}

	if hits != 1 {
		t.Errorf("handler ran %d times, want 1", hits)
	}
}
