package services

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	password := "Secur3P@ss12!"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if !strings.Contains(hash, "$") {
		t.Fatalf("hash %q missing salt separator", hash)
	}

	ok, err := VerifyPassword(hash, password)
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if !ok {
		t.Error("correct password did not verify")
	}

	ok, err = VerifyPassword(hash, "WrongP@ss12!")
	if err != nil {
		t.Fatalf("VerifyPassword returned error: %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}
}

func TestHashPasswordRejectsWeakPasswords(t *testing.T) {
	weak := []string{"short", "nonumbers!!", "nospecials12"}
	for _, password := range weak {
		if _, err := HashPassword(password); err == nil {
			t.Errorf("HashPassword(%q) accepted a weak password", password)
		}
	}
}

func TestHashPasswordUsesUniqueSalts(t *testing.T) {
	password := "Secur3P@ss12!"

	first, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	second, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password are identical")
	}

	if !ComparePasswords(first, password) || !ComparePasswords(second, password) {
		t.Error("both salted hashes should verify against the original password")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("not-a-valid-hash", "whatever"); err == nil {
		t.Error("malformed stored hash should error")
	}
}
