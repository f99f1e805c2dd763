// Package auth covers credential verification and access tokens:
// PBKDF2-SHA256 password hashes stored in the users table and short-lived
// HS256 JWTs carried as bearer tokens.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Hash format: pbkdf2_sha256$<iterations>$<salt>$<base64 digest>. The
// salt is stored as plain text, the digest standard-base64 encoded.
const (
	hashScheme     = "pbkdf2_sha256"
	hashIterations = 600000
	saltBytes      = 16
	keyBytes       = sha256.Size
)

// HashPassword derives a storable hash from a plaintext password.
func HashPassword(plain string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	saltStr := base64.RawStdEncoding.EncodeToString(salt)
	key := pbkdf2.Key([]byte(plain), []byte(saltStr), hashIterations, keyBytes, sha256.New)
	return fmt.Sprintf("%s$%d$%s$%s",
		hashScheme, hashIterations, saltStr, base64.StdEncoding.EncodeToString(key)), nil
}

// VerifyPassword checks a plaintext password against a stored hash.
// Malformed hashes verify as false, never as an error: a corrupt users
// row must read as a failed login.
func VerifyPassword(plain, stored string) bool {
	parts := strings.Split(stored, "$")
	if len(parts) != 4 || parts[0] != hashScheme {
		return false
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}
	want, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil || len(want) == 0 {
		return false
	}
	got := pbkdf2.Key([]byte(plain), []byte(parts[2]), iterations, len(want), sha256.New)
	return subtle.ConstantTimeCompare(got, want) == 1
}
