// Package security implements salted password hashing.
package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultSaltLength is the number of letters in a generated salt.
	DefaultSaltLength = 5
	// DefaultIterations is the PBKDF2 round count used when none is configured.
	DefaultIterations = 10000

	saltLetters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	separator   = ","
	digestLen   = 32
)

// Hasher creates and checks stored credentials of the form "salt,digest".
// The digest is PBKDF2-SHA256 over username||password keyed by the salt.
type Hasher struct {
	iterations int
	saltLength int
}

// NewHasher creates a Hasher. Non-positive iterations fall back to
// DefaultIterations.
func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{
		iterations: iterations,
		saltLength: DefaultSaltLength,
	}
}

// HashPassword returns the stored credential for username and password. An
// empty salt is replaced by a freshly generated one.
func (h *Hasher) HashPassword(username, password, salt string) string {
	if salt == "" {
		salt = MakeSalt(h.saltLength)
	}
	key := pbkdf2.Key([]byte(username+password), []byte(salt), h.iterations, digestLen, sha256.New)
	return salt + separator + hex.EncodeToString(key)
}

// VerifyPassword reports whether password matches the stored credential.
func (h *Hasher) VerifyPassword(stored, username, password string) bool {
	salt, _, ok := strings.Cut(stored, separator)
	if !ok || salt == "" {
		return false
	}
	expected := h.HashPassword(username, password, salt)
	return subtle.ConstantTimeCompare([]byte(stored), []byte(expected)) == 1
}

// MakeSalt returns length random ASCII letters.
func MakeSalt(length int) string {
	var sb strings.Builder
	sb.Grow(length)

	// Rejection sampling keeps the letter distribution uniform.
	limit := byte(256 - 256%len(saltLetters))
	buf := make([]byte, length*2)
	for sb.Len() < length {
		rand.Read(buf)
		for _, b := range buf {
			if b >= limit {
				continue
			}
			sb.WriteByte(saltLetters[int(b)%len(saltLetters)])
			if sb.Len() == length {
				break
			}
		}
	}
	return sb.String()
}
