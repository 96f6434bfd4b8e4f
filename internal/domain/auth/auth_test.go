package auth

import (
	"context"
	"testing"
	"time"

	"ems/internal/domain/rbac"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if err := CheckPassword(hash, "s3cret"); err != nil {
		t.Fatalf("expected password to verify: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch to fail")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	claims := Claims{UserID: "e1", Role: rbac.RoleManager, CompanyID: "c1", BranchID: "b1", Name: "Pat"}

	token, err := GenerateToken("secret", claims, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	parsed, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if parsed.UserID != "e1" || parsed.Role != rbac.RoleManager || parsed.BranchID != "b1" {
		t.Fatalf("claims did not survive the round trip: %+v", parsed)
	}
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "e1", Role: rbac.RoleEmployee}, time.Hour)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("expected parse to fail with the wrong secret")
	}
}

func TestAdminLoginFromConfig(t *testing.T) {
	service := NewService(nil, "root", "hunter2")

	identity, err := service.Login(context.Background(), "root", "hunter2")
	if err != nil {
		t.Fatalf("admin login failed: %v", err)
	}
	if identity.Role != rbac.RoleAdmin || identity.ID != AdminID {
		t.Fatalf("unexpected admin identity: %+v", identity)
	}
}

func TestAdminLoginDisabledWhenUnconfigured(t *testing.T) {
	service := NewService(nil, "", "")
	if service.matchesAdmin("", "") {
		t.Fatal("empty configured credential must never match")
	}
}
