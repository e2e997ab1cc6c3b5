package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Passwords are stored as "salt$hash" with pbkdf2-hmac-sha256. Records without
// a '$' are legacy plaintext entries kept readable until the owner logs in
// through a flow that rehashes them.
const (
	pbkdf2Iterations = 100000
	pbkdf2KeyLength  = 32
	saltBytes        = 16
)

// HashPassword derives a fresh salted credential for storage.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	key := pbkdf2.Key([]byte(password), []byte(saltHex), pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return saltHex + "$" + hex.EncodeToString(key), nil
}

// VerifyPassword checks a submitted password against the stored credential.
// It supports both the salted format and the legacy plaintext format.
func VerifyPassword(stored, provided string) bool {
	if !strings.Contains(stored, "$") {
		// Legacy plaintext entry (migration path).
		return stored == provided
	}
	parts := strings.SplitN(stored, "$", 2)
	salt, storedHash := parts[0], parts[1]
	key := pbkdf2.Key([]byte(provided), []byte(salt), pbkdf2Iterations, pbkdf2KeyLength, sha256.New)
	return hmac.Equal([]byte(hex.EncodeToString(key)), []byte(storedHash))
}
