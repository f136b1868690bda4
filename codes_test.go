package ollert_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/ackinc/ollert"
	"github.com/ackinc/ollert/stores/mem"
)

func TestIssueAndCheckCode(t *testing.T) {
	issuer := &ollert.CodeIssuer{Cache: mem.NewCodeCache()}
	ctx := context.Background()

	code, ttl, err := issuer.Issue(ctx, ollert.PurposeEmailVerification, "a@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if len(code) != 20 {
		t.Errorf("Expected a 20-character code, got %d", len(code))
	}
	if ttl != 15*time.Minute {
		t.Errorf("Expected the default 15m validity, got %v", ttl)
	}

	result, err := issuer.Check(ctx, ollert.PurposeEmailVerification, "a@example.com", code)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result != ollert.CheckOK {
		t.Errorf("Expected CheckOK, got %v", result)
	}

	result, err = issuer.Check(ctx, ollert.PurposeEmailVerification, "a@example.com", "WRONGCODE")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result != ollert.CheckIncorrect {
		t.Errorf("Expected CheckIncorrect for a wrong code, got %v", result)
	}
}

func TestCheckAbsentCodeReadsAsExpired(t *testing.T) {
	issuer := &ollert.CodeIssuer{Cache: mem.NewCodeCache()}

	result, err := issuer.Check(context.Background(), ollert.PurposePasswordReset, "nobody@example.com", "ANYTHING")
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result != ollert.CheckExpired {
		t.Errorf("Expected CheckExpired when no code was issued, got %v", result)
	}
}

func TestCodeExpiry(t *testing.T) {
	now := time.Now()
	cache := mem.NewCodeCache()
	cache.Now = func() time.Time { return now }

	issuer := &ollert.CodeIssuer{Cache: cache}
	ctx := context.Background()

	code, _, err := issuer.Issue(ctx, ollert.PurposeEmailVerification, "a@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	now = now.Add(15*time.Minute + time.Second)

	result, err := issuer.Check(ctx, ollert.PurposeEmailVerification, "a@example.com", code)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result != ollert.CheckExpired {
		t.Errorf("Expected CheckExpired past the TTL, got %v", result)
	}
}

func TestReissueInvalidatesPreviousCode(t *testing.T) {
	issuer := &ollert.CodeIssuer{Cache: mem.NewCodeCache()}
	ctx := context.Background()

	first, _, err := issuer.Issue(ctx, ollert.PurposeEmailVerification, "a@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	second, _, err := issuer.Issue(ctx, ollert.PurposeEmailVerification, "a@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	result, err := issuer.Check(ctx, ollert.PurposeEmailVerification, "a@example.com", first)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result != ollert.CheckIncorrect {
		t.Errorf("Expected the first code to stop checking out, got %v", result)
	}

	result, err = issuer.Check(ctx, ollert.PurposeEmailVerification, "a@example.com", second)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result != ollert.CheckOK {
		t.Errorf("Expected the latest code to check out, got %v", result)
	}
}

func TestCodePurposesAreIsolated(t *testing.T) {
	issuer := &ollert.CodeIssuer{Cache: mem.NewCodeCache()}
	ctx := context.Background()

	code, _, err := issuer.Issue(ctx, ollert.PurposeEmailVerification, "a@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	result, err := issuer.Check(ctx, ollert.PurposePasswordReset, "a@example.com", code)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if result != ollert.CheckExpired {
		t.Errorf("Expected a verification code to be unusable for reset, got %v", result)
	}
}

func TestCodeAlphabet(t *testing.T) {
	issuer := &ollert.CodeIssuer{Cache: mem.NewCodeCache(), Length: 200}

	code, _, err := issuer.Issue(context.Background(), ollert.PurposeEmailVerification, "a@example.com")
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for _, c := range code {
		if !strings.ContainsRune(alphabet, c) {
			t.Fatalf("Code contains %q, outside the alphanumeric alphabet", c)
		}
	}
}
