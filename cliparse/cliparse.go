// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
)

type Config struct {
	Port         int
	DatabaseURL  string
	JWTSecret    string
	AdminAPIKey  string
	UploadDir    string
	OTPRateRPS   float64
	OTPRateBurst int
}

// ParseFlags validates flags and sets port number
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("e-voting-backend", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.UploadDir, "uploads", "", "Directory for nomination file uploads")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Ballot token signing secret (prefer env)")
	fs.StringVar(&cfg.AdminAPIKey, "admin-key", "", "Admin API key (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 5000 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.UploadDir == "" {
		cfg.UploadDir = os.Getenv("UPLOAD_DIR")
		if cfg.UploadDir == "" {
			cfg.UploadDir = "./uploads"
		}
	}

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET required")
	}

	if cfg.AdminAPIKey == "" {
		cfg.AdminAPIKey = os.Getenv("ADMIN_API_KEY")
	}
	if cfg.AdminAPIKey == "" {
		return Config{}, errors.New("ADMIN_API_KEY required")
	}

	// OTP request throttle (per client IP)
	cfg.OTPRateRPS = 1.0 / 60.0 // one request a minute once the burst is spent
	cfg.OTPRateBurst = 3
	if v := os.Getenv("OTP_RATE_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil || burst < 1 {
			return Config{}, errors.New("invalid OTP_RATE_BURST env variable")
		}
		cfg.OTPRateBurst = burst
	}

	return cfg, nil
}
