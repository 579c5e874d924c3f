package security_test

import (
	"strings"
	"testing"

	"blog/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	h := security.NewHasher(100)

	stored := h.HashPassword("alice", "pw123", "")
	salt, digest, ok := strings.Cut(stored, ",")
	require.True(t, ok)
	assert.Len(t, salt, security.DefaultSaltLength)
	assert.Len(t, digest, 64)

	assert.True(t, h.VerifyPassword(stored, "alice", "pw123"))
	assert.False(t, h.VerifyPassword(stored, "alice", "wrong"))
	assert.False(t, h.VerifyPassword(stored, "bob", "pw123"))
}

func TestHashPassword_ExplicitSaltIsDeterministic(t *testing.T) {
	h := security.NewHasher(100)
	a := h.HashPassword("alice", "pw123", "abcde")
	b := h.HashPassword("alice", "pw123", "abcde")
	assert.Equal(t, a, b)
	assert.True(t, strings.HasPrefix(a, "abcde,"))

	c := h.HashPassword("alice", "pw123", "abcdf")
	assert.NotEqual(t, a, c)
}

func TestVerifyPassword_MutatedStoredValue(t *testing.T) {
	h := security.NewHasher(100)
	stored := h.HashPassword("alice", "pw123", "")

	flip := func(s string, i int) string {
		b := []byte(s)
		if b[i] == 'a' {
			b[i] = 'b'
		} else {
			b[i] = 'a'
		}
		return string(b)
	}

	for i := range stored {
		if stored[i] == ',' {
			continue
		}
		assert.False(t, h.VerifyPassword(flip(stored, i), "alice", "pw123"), "byte %d mutated", i)
	}
}

func TestVerifyPassword_Malformed(t *testing.T) {
	h := security.NewHasher(100)
	assert.False(t, h.VerifyPassword("", "alice", "pw"))
	assert.False(t, h.VerifyPassword("nosalt", "alice", "pw"))
	assert.False(t, h.VerifyPassword(",digest", "alice", "pw"))
}

func TestVerifyPassword_IterationsMustMatch(t *testing.T) {
	stored := security.NewHasher(100).HashPassword("alice", "pw123", "")
	assert.False(t, security.NewHasher(200).VerifyPassword(stored, "alice", "pw123"))
}

func TestMakeSalt(t *testing.T) {
	for i := 0; i < 50; i++ {
		salt := security.MakeSalt(8)
		assert.Len(t, salt, 8)
		for _, r := range salt {
			assert.True(t, (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'), "unexpected rune %q", r)
		}
	}
}
