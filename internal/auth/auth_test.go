package auth

import (
	"testing"
	"time"
)

func TestSignAndParseToken(t *testing.T) {
	token, err := SignToken("u1", "secret", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := ParseToken(token, "secret")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != "u1" {
		t.Fatalf("expected subject u1, got %s", claims.Subject)
	}

	// A token signed with the refresh secret must not verify as an access token.
	if _, err := ParseToken(token, "other-secret"); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword("hunter2", hash) {
		t.Fatal("expected matching password to verify")
	}
	if CheckPassword("wrong", hash) {
		t.Fatal("expected non-matching password to fail")
	}
}
