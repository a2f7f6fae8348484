package service

import (
	"testing"
	"time"

	"tollway/internal/models"
)

func TestTokenRoundtripPreservesClaims(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	user := &models.User{Username: "op_am", Role: models.RoleOperator, OperatorID: "AM"}
	token, err := svc.GenerateToken(user)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Username != "op_am" {
		t.Fatalf("expected username op_am, got %q", claims.Username)
	}
	if claims.Role != models.RoleOperator {
		t.Fatalf("expected role operator, got %q", claims.Role)
	}
	if claims.OperatorID != "AM" {
		t.Fatalf("expected operator AM, got %q", claims.OperatorID)
	}
}

func TestTokenExpired(t *testing.T) {
	svc := &TokenService{secret: []byte("test-secret"), expiresIn: -time.Minute}

	token, err := svc.GenerateToken(&models.User{Username: "alice", Role: models.RoleNormal})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatalf("expected expired token to fail validation")
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := NewTokenService("secret-a", time.Hour)
	verifier := NewTokenService("secret-b", time.Hour)

	token, err := issuer.GenerateToken(&models.User{Username: "alice", Role: models.RoleNormal})
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatalf("expected token signed with another secret to fail")
	}
}

func TestGenerateTokenRequiresUsername(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	if _, err := svc.GenerateToken(&models.User{}); err == nil {
		t.Fatalf("expected error for empty username")
	}
	if _, err := svc.GenerateToken(nil); err == nil {
		t.Fatalf("expected error for nil user")
	}
}
