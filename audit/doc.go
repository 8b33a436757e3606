// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package audit appends security-relevant events to the audit_log table.

# Recording

	rec := audit.NewRecorder(db)
	rec.MustRecord(audit.ActorVoter, voterID, audit.ActionBallotTokenIssued,
		"verification", verificationID, nil)

Entries are (actor type, actor id, action, target type, target id, detail)
tuples; detail is an optional JSON object.

# Failure Policy

Audit writes are best-effort relative to the operation that triggered them.
A committed vote is never rolled back because the audit insert failed, and
a rejected request is reported as rejected whether or not its audit entry
landed. MustRecord logs failures at Warn and swallows them; use Record
directly only where a caller wants to inspect the error itself.

The log is append-only: nothing in this package (or the schema) updates or
deletes rows.
*/
package audit
