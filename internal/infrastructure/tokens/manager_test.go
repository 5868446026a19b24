package tokens

import (
	"errors"
	"testing"
	"time"
)

func newTestManager(expiry time.Duration) *Manager {
	return NewManager(Config{
		Secret: "test-secret",
		Issuer: "funtube-test",
		Expiry: expiry,
	})
}

func TestSignAndVerify(t *testing.T) {
	m := newTestManager(time.Hour)

	token, err := m.Sign("user_abc123")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	userID, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != "user_abc123" {
		t.Fatalf("Verify() = %q, want %q", userID, "user_abc123")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := newTestManager(-time.Minute)

	token, err := m.Sign("user_abc123")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if _, err := m.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	m := newTestManager(time.Hour)
	other := NewManager(Config{Secret: "other-secret", Issuer: "funtube-test"})

	token, err := m.Sign("user_abc123")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(time.Hour)
	if _, err := m.Verify("not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("Verify() error = %v, want ErrInvalidToken", err)
	}
}
