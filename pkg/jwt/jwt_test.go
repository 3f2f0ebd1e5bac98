package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	m := NewManager("secret", time.Minute)
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "x@test.local", "developer")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := m.ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("expected user %s, got %s", userID, claims.UserID)
	}
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	token, err := NewManager("secret", time.Minute).GenerateAccessToken(uuid.New(), "", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := NewManager("other", time.Minute).ValidateAccessToken(token); err == nil {
		t.Fatal("expected signature failure")
	}
}

func TestValidateAccessToken_Expired(t *testing.T) {
	m := NewManager("secret", -time.Minute)
	token, err := m.GenerateAccessToken(uuid.New(), "", "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := m.ValidateAccessToken(token); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
}
