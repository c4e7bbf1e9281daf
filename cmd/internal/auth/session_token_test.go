package auth

import (
	"errors"
	"testing"
	"time"
)

func TestSessionSigner_RoundTrip(t *testing.T) {
	signer := NewSessionSigner("test-secret")
	now := time.Now()

	token, err := signer.Sign("sid-1", now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	sid, err := signer.Parse(token)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if sid != "sid-1" {
		t.Errorf("Parse() = %q, want %q", sid, "sid-1")
	}
}

func TestSessionSigner_RejectsExpiredAndForeignTokens(t *testing.T) {
	signer := NewSessionSigner("test-secret")
	now := time.Now()

	expired, err := signer.Sign("sid-1", now.Add(-2*time.Hour), now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	foreign, err := NewSessionSigner("other-secret").Sign("sid-1", now, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	for name, token := range map[string]string{"expired": expired, "foreign": foreign, "garbage": "not-a-jwt"} {
		if _, err := signer.Parse(token); !errors.Is(err, ErrInvalidSessionToken) {
			t.Errorf("Parse(%s) error = %v, want ErrInvalidSessionToken", name, err)
		}
	}
}
