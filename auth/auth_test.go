// Copyright (c) 2025 Fred Labongo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestGenerateOTP(t *testing.T) {
	otp, err := GenerateOTP()
	if err != nil {
		t.Fatalf("GenerateOTP() error = %v", err)
	}

	if len(otp) != OTPLength {
		t.Errorf("GenerateOTP() length = %d, want %d", len(otp), OTPLength)
	}

	for _, c := range otp {
		if c < '0' || c > '9' {
			t.Errorf("GenerateOTP() contains non-digit char: %c", c)
		}
	}

	// Two codes should (almost always) differ
	otp2, _ := GenerateOTP()
	otp3, _ := GenerateOTP()
	if otp == otp2 && otp == otp3 {
		t.Error("GenerateOTP() produced three identical codes (extremely unlikely)")
	}
}

func TestHashAndCheckOTP(t *testing.T) {
	otp := "042137"

	hash, err := HashOTP(otp)
	if err != nil {
		t.Fatalf("HashOTP() error = %v", err)
	}

	if hash == otp {
		t.Error("HashOTP() returned the plaintext code")
	}

	if err := CheckOTP(hash, otp); err != nil {
		t.Errorf("CheckOTP() with correct code error = %v", err)
	}

	if err := CheckOTP(hash, "000000"); err != ErrOTPMismatch {
		t.Errorf("CheckOTP() with wrong code error = %v, want %v", err, ErrOTPMismatch)
	}

	// Hashes are salted: hashing twice must not collide
	hash2, _ := HashOTP(otp)
	if hash == hash2 {
		t.Error("HashOTP() produced identical hashes for the same code")
	}
}

func TestHashRegNo(t *testing.T) {
	regNo := "2021-04-01234"

	hash, err := HashRegNo(regNo)
	if err != nil {
		t.Fatalf("HashRegNo() error = %v", err)
	}

	if hash == regNo || strings.Contains(hash, regNo) {
		t.Error("HashRegNo() leaks the registration number")
	}
}

func TestSignAndParseBallotToken(t *testing.T) {
	secret := []byte("test-secret")

	token, err := SignBallotToken(secret, 42, "hashed-reg-no", time.Hour)
	if err != nil {
		t.Fatalf("SignBallotToken() error = %v", err)
	}

	claims, err := ParseBallotToken(secret, token)
	if err != nil {
		t.Fatalf("ParseBallotToken() error = %v", err)
	}

	if claims.VerificationID != 42 {
		t.Errorf("VerificationID = %d, want 42", claims.VerificationID)
	}
	if claims.VoterHash != "hashed-reg-no" {
		t.Errorf("VoterHash = %q, want %q", claims.VoterHash, "hashed-reg-no")
	}
	if claims.ExpiresAt == nil {
		t.Fatal("token has no expiry claim")
	}
}

func TestParseBallotTokenExpired(t *testing.T) {
	secret := []byte("test-secret")

	token, err := SignBallotToken(secret, 7, "hash", -time.Minute)
	if err != nil {
		t.Fatalf("SignBallotToken() error = %v", err)
	}

	_, err = ParseBallotToken(secret, token)
	if err != ErrTokenExpired {
		t.Errorf("ParseBallotToken() on expired token error = %v, want %v", err, ErrTokenExpired)
	}
}

func TestParseBallotTokenInvalid(t *testing.T) {
	secret := []byte("test-secret")

	token, err := SignBallotToken(secret, 7, "hash", time.Hour)
	if err != nil {
		t.Fatalf("SignBallotToken() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"tampered payload", tamperToken(token)},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBallotToken(secret, tt.token); err != ErrInvalidToken {
				t.Errorf("ParseBallotToken() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}

	// Wrong secret must also fail
	if _, err := ParseBallotToken([]byte("other-secret"), token); err != ErrInvalidToken {
		t.Errorf("ParseBallotToken() with wrong secret error = %v, want %v", err, ErrInvalidToken)
	}
}

// TestBallotTokenPayloadFields decodes the raw JWT payload and asserts it
// carries nothing beyond the verification id, the voter hash, and the
// standard time claims. A name, email, or raw reg_no appearing here is a
// secret-ballot violation, not a cosmetic problem.
func TestBallotTokenPayloadFields(t *testing.T) {
	token, err := SignBallotToken([]byte("s"), 11, "voter-hash-value", time.Hour)
	if err != nil {
		t.Fatalf("SignBallotToken() error = %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("failed to decode payload segment: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		t.Fatalf("failed to unmarshal payload: %v", err)
	}

	allowed := map[string]bool{
		"verification_id": true,
		"voter_hash":      true,
		"iat":             true,
		"exp":             true,
	}
	for k := range fields {
		if !allowed[k] {
			t.Errorf("unexpected field %q in ballot token payload", k)
		}
	}
	if _, ok := fields["verification_id"]; !ok {
		t.Error("payload missing verification_id")
	}
	if _, ok := fields["voter_hash"]; !ok {
		t.Error("payload missing voter_hash")
	}
}

func TestValidateAdminKey(t *testing.T) {
	tests := []struct {
		name      string
		presented string
		expected  string
		wantErr   bool
	}{
		{"valid key", "super-secret", "super-secret", false},
		{"wrong key", "guess", "super-secret", true},
		{"empty presented", "", "super-secret", true},
		{"empty configured", "anything", "", true},
		{"both empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.presented, tt.expected)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && err != ErrInvalidAdminKey {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, ErrInvalidAdminKey)
			}
		})
	}
}

// tamperToken flips the last character of the payload segment.
func tamperToken(token string) string {
	parts := strings.Split(token, ".")
	payload := parts[1]
	last := payload[len(payload)-1]
	replacement := byte('A')
	if last == 'A' {
		replacement = 'B'
	}
	parts[1] = payload[:len(payload)-1] + string(replacement)
	return strings.Join(parts, ".")
}
