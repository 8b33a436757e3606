// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the election API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Voter verification (public):

	POST /api/verify/request - Request an OTP (throttled per IP)
	POST /api/verify/confirm - Exchange the OTP for a ballot token

Vote casting (requires Authorization: Bearer <ballot token>):

	POST /api/voting/cast - Cast the ballot (single use)

Results (admin, requires X-Admin-Key and X-Admin-ID):

	GET /api/results/tally   - Full ranked tally with turnout
	GET /api/results/turnout - Turnout only

Positions:

	GET    /api/position      - List (public)
	POST   /api/position      - Create (admin)
	PATCH  /api/position/{id} - Update (admin)
	DELETE /api/position/{id} - Delete (admin; refused once voted on)

Candidate nominations:

	POST  /api/candidate/nominate    - Submit nomination with files (public)
	GET   /api/candidate             - List nominations (public)
	PATCH /api/candidate/{id}/status - Approve/reject (admin)

Exports (admin):

	GET /api/admin/exports/{type} - CSV export: audit, results, or turnout

Static:

	GET /uploads/ - Stored nomination files

# Handler Initialization

The router creates handler instances with dependency injection:

	rec := audit.NewRecorder(db)
	verifyHandler := handlers.NewVerifyHandler(db, cfg, rec)
	votingHandler := handlers.NewVotingHandler(db, cfg, rec)
	...

All handlers receive the database connection, configuration, and the
shared audit recorder.
*/
package router
