package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash should not equal the plaintext")
	}

	if !CheckPassword("correct horse battery", hash) {
		t.Error("correct password should verify")
	}
	if CheckPassword("wrong password", hash) {
		t.Error("wrong password should not verify")
	}
}

func TestHashAndCheckPIN(t *testing.T) {
	hash, err := HashPIN("4821")
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}

	if !CheckPIN("4821", hash) {
		t.Error("correct PIN should verify")
	}
	if CheckPIN("0000", hash) {
		t.Error("wrong PIN should not verify")
	}
}

func TestHashPasswordUnique(t *testing.T) {
	a, _ := HashPassword("same input")
	b, _ := HashPassword("same input")
	if a == b {
		t.Error("bcrypt hashes should be salted, got identical hashes")
	}
}
