package util

import (
	"bytes"
	"testing"
)

func TestDeriveAndVerifyPassword(t *testing.T) {
	hash, salt, err := DerivePassword("correct-horse")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if len(hash) != hashLength || len(salt) != saltLength {
		t.Fatalf("unexpected lengths: hash=%d salt=%d", len(hash), len(salt))
	}

	if !VerifyPassword("correct-horse", salt, hash) {
		t.Fatal("correct password should verify")
	}
	if VerifyPassword("wrong-horse", salt, hash) {
		t.Fatal("wrong password must not verify")
	}
	if VerifyPassword("", salt, hash) {
		t.Fatal("empty password must not verify")
	}
}

func TestDerivePasswordSaltsDiffer(t *testing.T) {
	hash1, salt1, err := DerivePassword("same-password")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	hash2, salt2, err := DerivePassword("same-password")
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if bytes.Equal(salt1, salt2) {
		t.Fatal("two derivations should use different salts")
	}
	if bytes.Equal(hash1, hash2) {
		t.Fatal("different salts should yield different hashes")
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("newpass123"); err != nil {
		t.Fatalf("8+ characters should pass: %v", err)
	}
	if err := ValidatePassword("short"); err == nil {
		t.Fatal("short password should be rejected")
	}
	if err := ValidatePassword(""); err == nil {
		t.Fatal("empty password should be rejected")
	}
}

func TestHashPasswordRejectsEmptyInputs(t *testing.T) {
	salt, err := GenerateSalt()
	if err != nil {
		t.Fatalf("salt: %v", err)
	}
	if _, err := HashPassword("", salt); err == nil {
		t.Fatal("empty password should error")
	}
	if _, err := HashPassword("password", nil); err == nil {
		t.Fatal("empty salt should error")
	}
}
