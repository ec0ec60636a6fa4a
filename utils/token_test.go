package utils

import (
	"testing"

	"huddle/config"
)

func init() {
	config.Cfg = &config.Config{JWTSecret: "test-secret"}
}

func TestTokenRoundTrip(t *testing.T) {
	userID := GenerateUUID()
	token, err := GenerateToken(userID)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %q, want %q", claims.UserID, userID)
	}
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	if _, err := ParseToken("not-a-token"); err == nil {
		t.Error("garbage token parsed without error")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("u1")
	if err != nil {
		t.Fatal(err)
	}

	config.Cfg.JWTSecret = "different-secret"
	defer func() { config.Cfg.JWTSecret = "test-secret" }()

	if _, err := ParseToken(token); err == nil {
		t.Error("token signed with another secret parsed without error")
	}
}
