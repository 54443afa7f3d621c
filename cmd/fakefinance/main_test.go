package main

import (
	"testing"
	"time"

	"github.com/finbook/udhaar/internal/infrastructure/auth"
	"github.com/finbook/udhaar/internal/infrastructure/config"
)

func TestBuildVerifierStaticToken(t *testing.T) {
	verify := buildVerifier(&config.Config{DevToken: "dev-123"})
	if verify == nil {
		t.Fatal("expected verifier for static dev token")
	}

	if err := verify("dev-123"); err != nil {
		t.Fatalf("expected dev token to verify, got %v", err)
	}
	if err := verify("other"); err == nil {
		t.Fatal("expected wrong token to be rejected")
	}
}

func TestBuildVerifierDisabled(t *testing.T) {
	if verify := buildVerifier(&config.Config{}); verify != nil {
		t.Fatal("expected nil verifier when no auth is configured")
	}
}

func TestIssuedDevTokenVerifies(t *testing.T) {
	manager := auth.NewJWTManager("top-secret", time.Minute)

	devToken, err := issueDevToken(manager)
	if err != nil {
		t.Fatalf("failed to issue dev token: %v", err)
	}

	verify := jwtVerifier(manager)
	if err := verify(devToken); err != nil {
		t.Fatalf("expected issued dev token to verify, got %v", err)
	}
	if err := verify("not-a-token"); err == nil {
		t.Fatal("expected malformed token to be rejected")
	}

	other := jwtVerifier(auth.NewJWTManager("other-secret", time.Minute))
	if err := other(devToken); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}
