package ollert

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// PasswordHasher wraps bcrypt with a tunable work factor and a bound on the
// number of simultaneous hashing operations, so a burst of logins cannot
// monopolise every CPU.
type PasswordHasher struct {
	// bcrypt cost. Defaults to bcrypt.DefaultCost
	Cost int

	// Maximum concurrent hash/compare operations. Defaults to 4
	MaxConcurrent int64

	once sync.Once
	sem  *semaphore.Weighted
}

func (h *PasswordHasher) init() {
	h.once.Do(func() {
		if h.Cost <= 0 {
			h.Cost = bcrypt.DefaultCost
		}
		if h.MaxConcurrent <= 0 {
			h.MaxConcurrent = 4
		}
		h.sem = semaphore.NewWeighted(h.MaxConcurrent)
	})
}

// Hash produces a salted one-way hash of plaintext. Hashing the same
// plaintext twice yields different outputs; both verify.
func (h *PasswordHasher) Hash(ctx context.Context, plaintext string) (string, error) {
	h.init()
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer h.sem.Release(1)

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Compare reports whether plaintext matches hash. A mismatch is (false, nil);
// an error is only returned for malformed hash input or cancellation, which
// callers must treat as a server fault.
func (h *PasswordHasher) Compare(ctx context.Context, plaintext, hash string) (bool, error) {
	h.init()
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer h.sem.Release(1)

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}
