package identity

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// OTPLength is the number of digits in a one-time password
const OTPLength = 6

// OTPEntry is a stored one-time password
type OTPEntry struct {
	CodeHash  string    `json:"code_hash"`
	Attempts  int       `json:"attempts"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewOTPEntry hashes a code into an entry valid for ttl
func NewOTPEntry(code string, ttl time.Duration) (*OTPEntry, error) {
	hash, err := hashOTP(code)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &OTPEntry{
		CodeHash:  hash,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// Matches compares a submitted code with the stored hash
func (e *OTPEntry) Matches(code string) bool {
	return verifyHash(e.CodeHash, code)
}

// Expired reports whether the entry is past its expiry
func (e *OTPEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// GenerateOTP returns a random numeric code of OTPLength digits
func GenerateOTP() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < OTPLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", OTPLength, n), nil
}

// OTPs are short-lived and attempt-limited
const otpBcryptCost = 8

func hashOTP(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), otpBcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// OTPStore keeps one-time passwords keyed by phone number
type OTPStore interface {
	// Save stores the entry with a TTL, replacing any previous entry
	Save(ctx context.Context, phone string, entry *OTPEntry, ttl time.Duration) error

	// Get returns the entry, or shared.ErrNotFound if none or expired
	Get(ctx context.Context, phone string) (*OTPEntry, error)

	// IncrementAttempts records a wrong guess and returns the new count
	IncrementAttempts(ctx context.Context, phone string) (int, error)

	Delete(ctx context.Context, phone string) error

	// AcquireCooldown returns false if a code was sent within the window
	AcquireCooldown(ctx context.Context, phone string, window time.Duration) (bool, error)
}
