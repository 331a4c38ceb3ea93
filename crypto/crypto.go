// SPDX-License-Identifier: GPL-3.0-only

package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"locale-tracker/commons"
	"strconv"

	"github.com/alexedwards/argon2id"
)

var ErrTokenMismatch = errors.New("token verification failed")

const TokenPrefix = "lt_"

func envUint(key, fallback string, bits int) uint64 {
	v := commons.GetEnv(key, fallback)
	i, err := strconv.ParseUint(v, 10, bits)
	if err != nil {
		commons.Logger.Warnf("Invalid %s=%q, using %s", key, v, fallback)
		i, _ = strconv.ParseUint(fallback, 10, bits)
	}
	return i
}

func NewCrypto() *Crypto {
	return &Crypto{
		ArgonTime:    uint32(envUint("ARGON2_TIME", "1", 32)),
		ArgonMemory:  uint32(envUint("ARGON2_MEMORY", "65536", 32)),
		ArgonThreads: uint8(envUint("ARGON2_THREADS", "2", 8)),
		ArgonKeyLen:  uint32(envUint("ARGON2_KEYLEN", "32", 32)),
		ArgonSaltLen: uint32(envUint("ARGON2_SALTLEN", "16", 32)),
	}
}

func (c *Crypto) HashToken(token string) (string, error) {
	commons.Logger.Debug("Hashing API token")
	params := &argon2id.Params{
		Memory:      c.ArgonMemory,
		Iterations:  c.ArgonTime,
		Parallelism: c.ArgonThreads,
		SaltLength:  c.ArgonSaltLen,
		KeyLength:   c.ArgonKeyLen,
	}
	hash, err := argon2id.CreateHash(token, params)
	if err != nil {
		return "", err
	}
	commons.Logger.Debug("API token hashed")
	return hash, nil
}

// CheckTokenHash reports whether encodedHash is a well-formed argon2id hash.
func (c *Crypto) CheckTokenHash(encodedHash string) error {
	if _, _, _, err := argon2id.DecodeHash(encodedHash); err != nil {
		return fmt.Errorf("invalid token hash: %w", err)
	}
	return nil
}

// VerifyToken checks token against an encoded argon2id hash. The hash
// carries its own parameters, so any Crypto can verify it.
func (c *Crypto) VerifyToken(token, encodedHash string) error {
	match, err := argon2id.ComparePasswordAndHash(token, encodedHash)
	if err != nil {
		return err
	}
	if !match {
		return ErrTokenMismatch
	}
	return nil
}

func GenerateRandomString(prefix string, length int, encoding string) (string, error) {
	supported_encodings := []string{"hex", "base64"}

	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	switch encoding {
	case "hex":
		return prefix + hex.EncodeToString(b), nil
	case "base64":
		return prefix + base64.RawURLEncoding.EncodeToString(b), nil
	default:
		return "", fmt.Errorf("unsupported encoding: %s, Supported encodings are: %s", encoding, supported_encodings)
	}
}

// GenerateToken returns a new random API token.
func GenerateToken() (string, error) {
	return GenerateRandomString(TokenPrefix, 24, "hex")
}
