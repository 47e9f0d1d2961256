package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// HashParams is the argon2id work factor. Raising the parameters invalidates
// nothing: stored hashes keep verifying as long as the same params are used.
type HashParams struct {
	Time     uint32
	MemoryKB uint32
	Threads  uint8
}

func DefaultHashParams() HashParams {
	return HashParams{Time: 1, MemoryKB: 64 * 1024, Threads: 4}
}

// HashPassword derives an argon2id hash with a random 16-byte salt, encoded
// as "salt:hash" in base64.
func HashPassword(password string, p HashParams) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKB, p.Threads, 32)

	return fmt.Sprintf("%s:%s",
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func VerifyPassword(password, encoded string, p HashParams) bool {
	saltB64, hashB64, ok := strings.Cut(encoded, ":")
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(saltB64)
	if err != nil {
		return false
	}

	expected, err := base64.RawStdEncoding.DecodeString(hashB64)
	if err != nil {
		return false
	}

	hash := argon2.IDKey([]byte(password), salt, p.Time, p.MemoryKB, p.Threads, 32)
	return subtle.ConstantTimeCompare(hash, expected) == 1
}
