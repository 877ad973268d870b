package main

import (
	"bytes"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func TestValidateInputs(t *testing.T) {
	if err := validateInputs(32); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateInputs(16); err == nil {
		t.Fatal("expected error for short jwt secret")
	}
}

func TestBuildSecrets(t *testing.T) {
	jwtSecret, sessionKey, err := buildSecrets(48)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jwtSecret) != 96 {
		t.Fatalf("expected 96 hex chars got %d", len(jwtSecret))
	}
	key, err := hex.DecodeString(sessionKey)
	if err != nil || len(key) != sessionKeyBytes {
		t.Fatalf("session key must be %d bytes of hex: %s", sessionKeyBytes, sessionKey)
	}
}

func TestBuildSecrets_GeneratorError(t *testing.T) {
	orig := generateToken
	t.Cleanup(func() { generateToken = orig })
	generateToken = func(int) (string, error) { return "", errors.New("no entropy") }

	if _, _, err := buildSecrets(32); err == nil || !strings.Contains(err.Error(), "jwt secret") {
		t.Fatalf("expected jwt secret error, got %v", err)
	}
}

func TestRun(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"-jwt-bytes", "32"}, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "JWT_SECRET=") || !strings.Contains(text, "SESSION_ENCRYPTION_KEY=") {
		t.Fatalf("unexpected output: %s", text)
	}

	if err := run([]string{"-jwt-bytes", "8"}, &out); err == nil {
		t.Fatal("expected error for short jwt secret")
	}
	if err := run([]string{"-bogus"}, &out); err == nil {
		t.Fatal("expected flag parse error")
	}
}
