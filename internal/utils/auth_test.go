package utils

import (
	"testing"

	"github.com/frotamoto/patiogo/internal/config"
	"github.com/frotamoto/patiogo/internal/models"
)

func TestPasswordHashing(t *testing.T) {
	password := "secret123"

	// Test Hashing
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if hash == password {
		t.Error("Hash should not match plaintext password")
	}
	if len(hash) == 0 {
		t.Error("Hash should not be empty")
	}

	// Test Comparison (Success)
	if !CheckPasswordHash(password, hash) {
		t.Error("Password should match hash")
	}

	// Test Comparison (Failure)
	if CheckPasswordHash("wrongpassword", hash) {
		t.Error("Wrong password should not match hash")
	}
}

func TestJWT(t *testing.T) {
	cfg := &config.Config{
		JWTSecret: "test-secret-key-12345",
	}

	user := &models.UserAuth{
		ID:    "uuid-1234",
		Email: "test@example.com",
		Role:  "admin",
	}

	// Test Generation
	accessToken, refreshToken, err := GenerateTokens(user, cfg)
	if err != nil {
		t.Fatalf("Failed to generate tokens: %v", err)
	}
	if accessToken == "" || refreshToken == "" {
		t.Fatal("Tokens should not be empty")
	}

	// Test Validation (Success)
	claims, err := ValidateToken(accessToken, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to validate token: %v", err)
	}
	if claims["id"] != user.ID {
		t.Errorf("Claim id = %v, want %v", claims["id"], user.ID)
	}
	if claims["email"] != user.Email {
		t.Errorf("Claim email = %v, want %v", claims["email"], user.Email)
	}

	// Test Validation (Failure - wrong secret)
	if _, err := ValidateToken(accessToken, "wrong-secret"); err == nil {
		t.Error("Token should not validate with wrong secret")
	}

	// Test Validation (Failure - garbage)
	if _, err := ValidateToken("not.a.token", cfg.JWTSecret); err == nil {
		t.Error("Garbage should not validate")
	}
}
