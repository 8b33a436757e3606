// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidToken    = errors.New("invalid ballot token")
	ErrTokenExpired    = errors.New("ballot token expired")
	ErrOTPMismatch     = errors.New("otp does not match")
)

// OTPLength is the number of digits in a one-time passcode.
const OTPLength = 6

// GenerateOTP creates a random numeric passcode of OTPLength digits.
// Uses crypto/rand; leading zeros are preserved.
func GenerateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < OTPLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate OTP: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPLength, n), nil
}

// HashOTP returns a bcrypt hash of the passcode. Only the hash is ever
// stored; the plaintext code leaves the process via the delivery channel
// and nowhere else.
func HashOTP(otp string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash OTP: %w", err)
	}
	return string(hash), nil
}

// CheckOTP compares a submitted passcode against a stored hash.
// bcrypt's comparison is constant-time with respect to the submitted value.
func CheckOTP(hash, otp string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(otp)); err != nil {
		return ErrOTPMismatch
	}
	return nil
}

// HashRegNo produces a one-way hash of a voter's registration number for
// embedding in the ballot token. The token must let an auditor correlate
// a credential with "some registered voter" without ever recovering which
// one, so the raw reg_no never appears in any token or vote row.
func HashRegNo(regNo string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(regNo), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash reg_no: %w", err)
	}
	return string(hash), nil
}

// BallotClaims is the complete payload of a ballot token. No other
// voter-identifying field may be added here: verification_id and
// voter_hash plus the standard time claims are the entire wire contract.
type BallotClaims struct {
	VerificationID int64  `json:"verification_id"`
	VoterHash      string `json:"voter_hash"`
	jwt.RegisteredClaims
}

// SignBallotToken issues a signed single-use ballot credential. Expiry is
// fixed at issuance; single-use is enforced by the consumed_at column, not
// by the token itself.
func SignBallotToken(secret []byte, verificationID int64, voterHash string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := BallotClaims{
		VerificationID: verificationID,
		VoterHash:      voterHash,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign ballot token: %w", err)
	}
	return signed, nil
}

// ParseBallotToken verifies a ballot token's signature and expiry.
// Returns ErrTokenExpired for an expired-but-well-signed token so callers
// can tell the voter to re-verify, and ErrInvalidToken for everything else.
func ParseBallotToken(secret []byte, tokenString string) (*BallotClaims, error) {
	claims := &BallotClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateAdminKey checks the presented admin API key in constant time.
func ValidateAdminKey(presented, expected string) error {
	if expected == "" || !hmac.Equal([]byte(presented), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}
