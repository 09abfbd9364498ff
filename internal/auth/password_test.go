package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"market-directory/internal/apperr"
)

func newTestHasher(t *testing.T) *Hasher {
	t.Helper()
	h, err := NewHasher(SchemePBKDF2, 1000, bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func TestHasher_PBKDF2RoundTrip(t *testing.T) {
	h := newTestHasher(t)

	encoded, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "pbkdf2:sha256:1000$"))
	parts := strings.Split(encoded, "$")
	require.Len(t, parts, 3)
	assert.Len(t, parts[1], saltLength)
	assert.Len(t, parts[2], 64)
	assert.NotContains(t, encoded, "correct horse")

	assert.True(t, h.Verify(encoded, "correct horse"))
	assert.False(t, h.Verify(encoded, "correct horsе"))
	assert.False(t, h.Verify(encoded, ""))
}

func TestHasher_SaltsDiffer(t *testing.T) {
	h := newTestHasher(t)

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify(a, "same"))
	assert.True(t, h.Verify(b, "same"))
}

// RFC 7914 section 11: PBKDF2-HMAC-SHA256("passwd", "salt", 1), first block.
func TestHasher_VerifiesKnownVector(t *testing.T) {
	h := newTestHasher(t)
	encoded := "pbkdf2:sha256:1$salt$55ac046e56e3089fec1691c22544b605f94185216dde0465e68b9d57c20dacbc"

	assert.True(t, h.Verify(encoded, "passwd"))
	assert.False(t, h.Verify(encoded, "password"))
}

func TestHasher_UsesStoredIterations(t *testing.T) {
	weak := newTestHasher(t)
	encoded, err := weak.Hash("pw")
	require.NoError(t, err)

	strong, err := NewHasher(SchemePBKDF2, 5000, bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, strong.Verify(encoded, "pw"))
}

func TestHasher_Bcrypt(t *testing.T) {
	h, err := NewHasher(SchemeBcrypt, 0, bcrypt.MinCost)
	require.NoError(t, err)

	encoded, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$2"))
	assert.True(t, h.Verify(encoded, "s3cret"))
	assert.False(t, h.Verify(encoded, "other"))

	// bcrypt hashes keep verifying after switching back to pbkdf2.
	assert.True(t, newTestHasher(t).Verify(encoded, "s3cret"))

	_, err = h.Hash(strings.Repeat("x", 100))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestHasher_RejectsGarbage(t *testing.T) {
	h := newTestHasher(t)
	for _, encoded := range []string{
		"",
		"plaintext",
		"pbkdf2:sha256:1000$onlysalt",
		"pbkdf2:md5:1000$salt$00",
		"pbkdf2:sha256:abc$salt$55ac046e56e3089fec1691c22544b605f94185216dde0465e68b9d57c20dacbc",
		"pbkdf2:sha256:0$salt$55ac046e56e3089fec1691c22544b605f94185216dde0465e68b9d57c20dacbc",
		"pbkdf2:sha256:1$salt$zz",
		"pbkdf2:sha256:1$salt$55ac",
		"scrypt:32768:8:1$salt$abcd",
	} {
		assert.False(t, h.Verify(encoded, "passwd"), encoded)
	}
}

func TestHasher_TooLong(t *testing.T) {
	h := newTestHasher(t)
	_, err := h.Hash(strings.Repeat("a", maxPassword+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestNewHasher_Validates(t *testing.T) {
	_, err := NewHasher("md5", 1, 10)
	assert.Error(t, err)
	_, err = NewHasher(SchemePBKDF2, 0, 10)
	assert.Error(t, err)
	_, err = NewHasher(SchemeBcrypt, 0, 99)
	assert.Error(t, err)
}

func TestRandomSalt_Alphabet(t *testing.T) {
	salt, err := randomSalt(200)
	require.NoError(t, err)
	assert.Len(t, salt, 200)
	for _, c := range salt {
		assert.True(t, strings.ContainsRune(saltChars, c), string(c))
	}
}
