// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the e-voting API server.

The server verifies voters with one-time passcodes, exchanges confirmed
passcodes for single-use ballot tokens, records votes exactly once per
token, and tallies results deterministically.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... JWT_SECRET=... ADMIN_API_KEY=... go run main.go

Or with flags:

	go run main.go -p 5000 -d "postgres://..." -jwt-secret ... -admin-key ...

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): Ballot token signing secret
  - ADMIN_API_KEY (-admin-key): Shared key for admin endpoints

Optional settings:

  - PORT (-p): Server port (default: 5000)
  - UPLOAD_DIR (-uploads): Nomination upload directory (default: ./uploads)
  - OTP_RATE_BURST: Burst size for the per-IP OTP throttle

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (verify, voting, results, positions,
    candidates, admin exports)
  - router: Route definitions using Go 1.22+ routing
  - middleware: ballot gate, admin gate, rate limiting, CORS, logging,
    JSON helpers
  - models: Request/response types and stable error codes
  - auth: OTP hashing and ballot token signing
  - audit: append-only audit log recorder
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
