package utils

import (
	"testing"
	"time"
)

func TestJWT(t *testing.T) {
	secret := "test-secret-key-12345"

	token, err := GenerateAdminToken("planner-1", "admin", secret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	claims, err := ValidateToken(token, secret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims["sub"] != "planner-1" {
		t.Errorf("Subject mismatch: got %v", claims["sub"])
	}
	if claims["role"] != "admin" {
		t.Errorf("Role mismatch: got %v", claims["role"])
	}

	// Wrong secret
	if _, err := ValidateToken(token, "wrong-secret"); err == nil {
		t.Error("Token signed with another secret should not validate")
	}
}

func TestJWTExpired(t *testing.T) {
	secret := "test-secret-key-12345"
	token, err := GenerateAdminToken("planner-1", "admin", secret, -time.Minute)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	if _, err := ValidateToken(token, secret); err == nil {
		t.Error("Expired token should not validate")
	}
}
