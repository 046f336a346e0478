// Package auth provides password hashing, cookie sessions, and the
// authentication HTTP handlers.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters; keyLen and saltLen are fixed by the stored format.
const (
	scryptN = 16384
	scryptR = 8
	scryptP = 1
	saltLen = 16
	keyLen  = 64
)

// HashPassword derives a scrypt key from password with a random per-password
// salt and returns "hex(key).hex(salt)".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// VerifyPassword reports whether password matches the stored hash. A
// malformed stored value verifies as false rather than returning an error,
// so a corrupted row cannot be logged in against.
func VerifyPassword(password, stored string) bool {
	hashHex, saltHex, ok := strings.Cut(stored, ".")
	if !ok {
		return false
	}
	want, err := hex.DecodeString(hashHex)
	if err != nil || len(want) != keyLen {
		return false
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	got, err := scrypt.Key([]byte(password), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}
