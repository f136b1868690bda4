package ollert_test

import (
	"context"
	"testing"

	"github.com/ackinc/ollert"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hasher := &ollert.PasswordHasher{Cost: bcrypt.MinCost}
	ctx := context.Background()

	hash, err := hasher.Hash(ctx, "hunter2")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if hash == "hunter2" {
		t.Fatal("Hash returned the plaintext")
	}

	matched, err := hasher.Compare(ctx, "hunter2", hash)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if !matched {
		t.Error("Expected hash to match its own plaintext")
	}

	matched, err = hasher.Compare(ctx, "hunter3", hash)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if matched {
		t.Error("Expected mismatch for a different plaintext")
	}
}

func TestPasswordHashesAreSalted(t *testing.T) {
	hasher := &ollert.PasswordHasher{Cost: bcrypt.MinCost}
	ctx := context.Background()

	first, err := hasher.Hash(ctx, "hunter2")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	second, err := hasher.Hash(ctx, "hunter2")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if first == second {
		t.Error("Expected two hashes of the same plaintext to differ")
	}

	for _, hash := range []string{first, second} {
		matched, err := hasher.Compare(ctx, "hunter2", hash)
		if err != nil {
			t.Fatalf("Compare failed: %v", err)
		}
		if !matched {
			t.Error("Expected both salted hashes to verify")
		}
	}
}

func TestCompareMalformedHash(t *testing.T) {
	hasher := &ollert.PasswordHasher{}

	matched, err := hasher.Compare(context.Background(), "hunter2", "not-a-bcrypt-hash")
	if err == nil {
		t.Error("Expected an error for a malformed hash")
	}
	if matched {
		t.Error("Expected no match for a malformed hash")
	}
}
