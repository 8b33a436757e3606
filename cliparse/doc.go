// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: PostgreSQL connection string (required)
  - JWTSecret: Ballot token signing secret (required)
  - AdminAPIKey: Shared key for admin endpoints (required)
  - UploadDir: Directory for nomination uploads (default: ./uploads)
  - OTPRateRPS / OTPRateBurst: per-IP throttle on OTP requests

# CLI Flags

	-p           Server port
	-d           Database URL
	-uploads     Upload directory
	-jwt-secret  Ballot token secret
	-admin-key   Admin API key

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	DATABASE_URL   → -d
	UPLOAD_DIR     → -uploads
	JWT_SECRET     → -jwt-secret
	ADMIN_API_KEY  → -admin-key
	OTP_RATE_BURST → burst size for the OTP throttle

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing:

  - DATABASE_URL must be provided
  - JWT_SECRET must be provided
  - ADMIN_API_KEY must be provided

There is deliberately no config field for the acting admin's identity:
audit entries for admin actions take their actor from the authenticated
request, never from ambient configuration.
*/
package cliparse
