package models

import (
	"testing"

	"github.com/campusworks/assets_backend/utils"
)

func TestPasswordMatches(t *testing.T) {
	hash, err := utils.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if !passwordMatches(string(hash), "s3cret") {
		t.Fatal("correct password must match")
	}
	if passwordMatches(string(hash), "wrong") {
		t.Fatal("wrong password must not match")
	}
	// a corrupt or empty stored hash must read as a mismatch, never a pass
	if passwordMatches("", "s3cret") {
		t.Fatal("empty stored hash must not match")
	}
	if passwordMatches("not-a-bcrypt-hash", "s3cret") {
		t.Fatal("malformed stored hash must not match")
	}
}
