package auth

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := NewAccessToken(7, "amira", "amira@example.com", "ROLE_PATIENT", "secret", time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	claims, err := Parse(token, "secret")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Sub != 7 || claims.Login != "amira" || claims.Role != "ROLE_PATIENT" {
		t.Errorf("unexpected claims: %+v", claims)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewAccessToken(7, "amira", "amira@example.com", "ROLE_PATIENT", "secret", time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	if _, err := Parse(token, "other-secret"); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	token, err := NewAccessToken(7, "amira", "amira@example.com", "ROLE_PATIENT", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	if _, err := Parse(token, "secret"); err == nil {
		t.Error("expected error for expired token")
	}
}
