package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-directory/internal/apperr"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func newTestTokens(secret string, ttl time.Duration, clock *fakeClock) *TokenService {
	s := NewTokenService(secret, ttl)
	s.now = clock.Now
	return s
}

func TestTokens_IssueAndVerify(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestTokens("super-secret", time.Hour, clock)

	tok, err := s.Issue(42)
	require.NoError(t, err)
	assert.True(t, clock.t.Add(time.Hour).Equal(tok.ExpiresAt))

	got, err := s.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
}

func TestTokens_ExpiresInMatchesClaim(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 700_000_000, time.UTC)}
	s := newTestTokens("k", time.Hour, clock)

	tok, err := s.Issue(1)
	require.NoError(t, err)

	assert.True(t, time.Date(2026, 3, 1, 13, 0, 0, 0, time.UTC).Equal(tok.ExpiresAt))
	assert.Equal(t, time.Hour-700*time.Millisecond, tok.ExpiresIn)
	assert.True(t, clock.t.Add(tok.ExpiresIn).Equal(tok.ExpiresAt))
}

func TestTokens_ValidUntilExpiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: issued}
	s := newTestTokens("k", time.Hour, clock)

	tok, err := s.Issue(7)
	require.NoError(t, err)

	clock.t = tok.ExpiresAt.Add(-time.Second)
	got, err := s.Verify(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got)

	clock.t = tok.ExpiresAt.Add(time.Second)
	_, err = s.Verify(tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	// No way back to valid once expired.
	clock.t = tok.ExpiresAt.Add(24 * time.Hour)
	_, err = s.Verify(tok.Token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokens_WrongSecret(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	tok, err := newTestTokens("right-secret", time.Hour, clock).Issue(1)
	require.NoError(t, err)

	_, err = newTestTokens("wrong-secret", time.Hour, clock).Verify(tok.Token)
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestTokens_AlteredSegments(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s := newTestTokens("k", time.Hour, clock)
	tok, err := s.Issue(99)
	require.NoError(t, err)

	segments := strings.Split(tok.Token, ".")
	require.Len(t, segments, 3)

	for i := range segments {
		for _, pos := range []int{0, len(segments[i]) / 2} {
			altered := append([]string(nil), segments...)
			b := []byte(altered[i])
			if b[pos] == 'A' {
				b[pos] = 'B'
			} else {
				b[pos] = 'A'
			}
			altered[i] = string(b)

			_, err := s.Verify(strings.Join(altered, "."))
			assert.ErrorIs(t, err, apperr.ErrUnauthorized, "segment %d position %d", i, pos)
		}
	}
}

func TestTokens_Malformed(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	s := newTestTokens("k", time.Hour, clock)

	for _, raw := range []string{"", "not.a.jwt", "abc", strings.Repeat("x", 40)} {
		_, err := s.Verify(raw)
		assert.ErrorIs(t, err, ErrTokenMalformed, raw)
	}
}

func signWith(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	out, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return out
}

func TestTokens_RejectsForeignShapes(t *testing.T) {
	now := time.Now()
	clock := &fakeClock{t: now}
	s := newTestTokens("k", time.Hour, clock)
	exp := jwt.NewNumericDate(now.Add(time.Hour))

	cases := map[string]string{
		"wrong alg": signWith(t, jwt.SigningMethodHS512, []byte("k"), accessClaims{Type: "access",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: exp}}),
		"none alg": signWith(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, accessClaims{Type: "access",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: exp}}),
		"wrong typ": signWith(t, jwt.SigningMethodHS256, []byte("k"), accessClaims{Type: "refresh",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "1", ExpiresAt: exp}}),
		"no exp": signWith(t, jwt.SigningMethodHS256, []byte("k"), accessClaims{Type: "access",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "1"}}),
		"bad subject": signWith(t, jwt.SigningMethodHS256, []byte("k"), accessClaims{Type: "access",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "alice", ExpiresAt: exp}}),
		"zero subject": signWith(t, jwt.SigningMethodHS256, []byte("k"), accessClaims{Type: "access",
			RegisteredClaims: jwt.RegisteredClaims{Subject: "0", ExpiresAt: exp}}),
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(raw)
			assert.ErrorIs(t, err, ErrTokenMalformed)
		})
	}
}
