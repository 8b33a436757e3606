// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"github.com/labongofred/E-voting-system-backend/models"
)

// IPRateLimiter throttles requests per client IP. Used on the OTP request
// endpoint to slow down passcode farming.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
}

func NewIPRateLimiter(rps float64, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

// maxTrackedIPs bounds memory under address churn. When the table fills,
// it is dropped wholesale; refilling costs each client at most one extra
// burst, which is acceptable for an abuse throttle.
const maxTrackedIPs = 10000

func (l *IPRateLimiter) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[ip]
	if !ok {
		if len(l.limiters) >= maxTrackedIPs {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.rps, l.burst)
		l.limiters[ip] = lim
	}
	return lim
}

// Allow reports whether a request from ip may proceed now.
func (l *IPRateLimiter) Allow(ip string) bool {
	return l.limiter(ip).Allow()
}

// Limit wraps a handler with the per-IP throttle.
func (l *IPRateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(GetClientIP(r)) {
			ErrorResponse(w, http.StatusTooManyRequests, models.CodeRateLimited, "Too many requests. Try again later.")
			return
		}
		next(w, r)
	}
}
