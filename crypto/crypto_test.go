// SPDX-License-Identifier: GPL-3.0-only

package crypto

import (
	"errors"
	"strings"
	"testing"
)

func fastCrypto(t *testing.T) *Crypto {
	t.Setenv("ARGON2_MEMORY", "1024")
	t.Setenv("ARGON2_THREADS", "1")
	return NewCrypto()
}

func TestNewCryptoFromEnv(t *testing.T) {
	t.Setenv("ARGON2_TIME", "3")
	t.Setenv("ARGON2_THREADS", "not-a-number")
	c := NewCrypto()

	if c.ArgonTime != 3 {
		t.Errorf("Expected ArgonTime 3, got %d", c.ArgonTime)
	}
	if c.ArgonThreads != 2 {
		t.Errorf("Expected invalid ARGON2_THREADS to fall back to 2, got %d", c.ArgonThreads)
	}
	if c.ArgonMemory != 65536 {
		t.Errorf("Expected default ArgonMemory 65536, got %d", c.ArgonMemory)
	}
}

func TestHashToken(t *testing.T) {
	crypto := fastCrypto(t)
	token := "lt_testtoken123"

	hash, err := crypto.HashToken(token)
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("Unexpected hash format: %s", hash)
	}

	hash2, err := crypto.HashToken(token)
	if err != nil {
		t.Fatalf("Second HashToken failed: %v", err)
	}

	if hash == hash2 {
		t.Error("Two hashes of same token should be different (due to salt)")
	}
}

func TestVerifyToken(t *testing.T) {
	crypto := fastCrypto(t)
	token := "lt_testtoken123"

	hash, err := crypto.HashToken(token)
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}

	if err := crypto.VerifyToken(token, hash); err != nil {
		t.Errorf("VerifyToken failed for correct token: %v", err)
	}

	if err := crypto.VerifyToken("lt_wrongtoken", hash); !errors.Is(err, ErrTokenMismatch) {
		t.Errorf("Expected ErrTokenMismatch for wrong token, got %v", err)
	}

	if err := crypto.VerifyToken(token, "invalid-hash"); err == nil {
		t.Error("VerifyToken should fail for invalid hash")
	}
}

func TestCheckTokenHash(t *testing.T) {
	crypto := fastCrypto(t)

	hash, err := crypto.HashToken("lt_testtoken123")
	if err != nil {
		t.Fatalf("HashToken failed: %v", err)
	}
	if err := crypto.CheckTokenHash(hash); err != nil {
		t.Errorf("CheckTokenHash rejected a fresh hash: %v", err)
	}

	for _, bad := range []string{"", "lt_testtoken123", "$argon2id$v=19$m=1024,t=1,p=1$salt"} {
		if err := crypto.CheckTokenHash(bad); err == nil {
			t.Errorf("CheckTokenHash(%q) should fail", bad)
		}
	}
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken()
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if !strings.HasPrefix(token, TokenPrefix) || len(token) != len(TokenPrefix)+48 {
		t.Errorf("Unexpected token %q", token)
	}

	other, _ := GenerateToken()
	if token == other {
		t.Error("Generated tokens should differ")
	}

	if _, err := GenerateRandomString("", 8, "base32"); err == nil {
		t.Error("GenerateRandomString should fail for unsupported encoding")
	}
}
