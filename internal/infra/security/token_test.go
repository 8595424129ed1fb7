package security

import (
	"errors"
	"strings"
	"testing"
	"time"
)

const testSigningSecret = "test-signing-secret-0123456789"

func TestTokenServiceRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testSigningSecret, "electrolytes", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	token, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	subject, err := svc.Validate(token)
	if err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	if subject != "alice" {
		t.Fatalf("expected subject alice, got %s", subject)
	}
}

func TestTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService("", "electrolytes", time.Minute); err == nil {
		t.Fatal("expected empty secret to be rejected")
	}
}

func TestTokenServiceZeroTTLExpiresImmediately(t *testing.T) {
	svc, err := NewTokenService(testSigningSecret, "electrolytes", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	token, err := svc.IssueWithTTL("bob", 0)
	if err != nil {
		t.Fatalf("IssueWithTTL returned error: %v", err)
	}

	if _, err := svc.Validate(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenServiceRejectsTampering(t *testing.T) {
	svc, err := NewTokenService(testSigningSecret, "electrolytes", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	token, err := svc.Issue("carol")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three JWT segments, got %d", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

	if _, err := svc.Validate(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered signature, got %v", err)
	}
}

func TestTokenServiceRejectsForeignSecret(t *testing.T) {
	issuer, err := NewTokenService(testSigningSecret, "electrolytes", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}
	verifier, err := NewTokenService("a-completely-different-secret!!", "electrolytes", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	token, err := issuer.Issue("dave")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign secret, got %v", err)
	}
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	svc, err := NewTokenService(testSigningSecret, "electrolytes", time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService returned error: %v", err)
	}

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}
