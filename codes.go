package ollert

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"
)

// CodePurpose namespaces one-time codes in the cache. The values are the
// literal key prefixes; the full cache key is "<purpose>:<subject>".
type CodePurpose string

const (
	PurposeEmailVerification CodePurpose = "email_verification_token"
	PurposePasswordReset     CodePurpose = "reset_password_token"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// CodeCache is a TTL key-value store for short-lived codes. Expiry is the
// cache's concern: once the TTL passes the key reads as absent.
type CodeCache interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Get returns ok=false when the key is absent or expired.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
}

// CheckResult is the three-valued outcome of checking a candidate code.
type CheckResult int

const (
	CheckOK CheckResult = iota
	CheckExpired
	CheckIncorrect
)

// CodeIssuer generates purpose-scoped one-time codes and stores them with a
// fixed expiry. Issuing overwrites any live code for the same subject, so the
// last-issued code is the only one that checks out.
type CodeIssuer struct {
	Cache CodeCache

	// Code length. Defaults to 20
	Length int

	// Per-purpose lifetimes. Both default to 15 minutes
	EmailVerificationTTL time.Duration
	PasswordResetTTL     time.Duration
}

func (ci *CodeIssuer) EnsureDefaults() *CodeIssuer {
	if ci.Length <= 0 {
		ci.Length = 20
	}
	if ci.EmailVerificationTTL <= 0 {
		ci.EmailVerificationTTL = 15 * time.Minute
	}
	if ci.PasswordResetTTL <= 0 {
		ci.PasswordResetTTL = 15 * time.Minute
	}
	return ci
}

func (ci *CodeIssuer) ttlFor(purpose CodePurpose) time.Duration {
	if purpose == PurposePasswordReset {
		return ci.PasswordResetTTL
	}
	return ci.EmailVerificationTTL
}

func cacheKey(purpose CodePurpose, subject string) string {
	return string(purpose) + ":" + subject
}

// Issue generates a fresh code for (purpose, subject) and stores it under the
// purpose-scoped key, returning the code and its validity window.
func (ci *CodeIssuer) Issue(ctx context.Context, purpose CodePurpose, subject string) (string, time.Duration, error) {
	ci.EnsureDefaults()
	code, err := randomCode(ci.Length)
	if err != nil {
		return "", 0, err
	}
	ttl := ci.ttlFor(purpose)
	if err := ci.Cache.Set(ctx, cacheKey(purpose, subject), code, ttl); err != nil {
		return "", 0, fmt.Errorf("storing %s code: %w", purpose, err)
	}
	return code, ttl, nil
}

// Check compares candidate against the stored code. An absent key reads as
// CheckExpired; a present-but-different code as CheckIncorrect. The
// comparison is case-sensitive and exact.
func (ci *CodeIssuer) Check(ctx context.Context, purpose CodePurpose, subject, candidate string) (CheckResult, error) {
	ci.EnsureDefaults()
	stored, ok, err := ci.Cache.Get(ctx, cacheKey(purpose, subject))
	if err != nil {
		return CheckExpired, fmt.Errorf("reading %s code: %w", purpose, err)
	}
	if !ok {
		return CheckExpired, nil
	}
	if stored != candidate {
		return CheckIncorrect, nil
	}
	return CheckOK, nil
}

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}
