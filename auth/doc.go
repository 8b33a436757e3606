// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides passcode hashing and ballot credential utilities.

# One-Time Passcodes

OTPs are 6-digit numeric codes generated with crypto/rand:

	otp, err := auth.GenerateOTP()
	hash, err := auth.HashOTP(otp)
	err = auth.CheckOTP(hash, submitted)

Only the bcrypt hash is stored. CheckOTP returns ErrOTPMismatch on failure;
bcrypt's comparison is constant-time with respect to the submitted code,
which is a hard requirement for secret verification here.

# Ballot Tokens

Ballot tokens are HS256 JWTs whose payload is exactly

	{verification_id, voter_hash, iat, exp}

voter_hash is a bcrypt hash of the voter's registration number. Neither the
registration number nor any name or email ever appears in a token; the
payload alone cannot be mapped back to a named voter.

	token, err := auth.SignBallotToken(secret, verificationID, voterHash, 2*time.Hour)
	claims, err := auth.ParseBallotToken(secret, token)

ParseBallotToken distinguishes ErrTokenExpired from ErrInvalidToken so the
ballot gate can report expiry as its own case.

Tokens are time-bounded but not self-revoking: single use is enforced by
the verification row's consumed_at column, checked and set server-side.

# Admin Keys

Admin endpoints are gated by a shared key from configuration, compared in
constant time:

	err := auth.ValidateAdminKey(presented, cfg.AdminAPIKey)
*/
package auth
