package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"market-directory/internal/apperr"
)

const accessTokenType = "access"

var (
	ErrTokenMalformed = fmt.Errorf("%w: malformed token", apperr.ErrUnauthorized)
	ErrTokenExpired   = fmt.Errorf("%w: token expired", apperr.ErrUnauthorized)
)

// AccessToken is a signed token. ExpiresIn is measured from issue time to
// the whole-second exp claim, so it can be just under the configured TTL.
type AccessToken struct {
	Token     string
	ExpiresAt time.Time
	ExpiresIn time.Duration
}

type accessClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenService signs and checks HS256 access tokens. Tokens are not stored
// anywhere, so there is no way to revoke one before it expires.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *TokenService) Issue(userID int64) (AccessToken, error) {
	now := s.now().UTC()
	claims := accessClaims{
		Type: accessTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	encoded, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return AccessToken{}, fmt.Errorf("sign jwt: %w", err)
	}

	return AccessToken{
		Token:     encoded,
		ExpiresAt: claims.ExpiresAt.Time,
		ExpiresIn: claims.ExpiresAt.Time.Sub(now),
	}, nil
}

// Verify returns the user id carried by token. A token is accepted strictly
// before its exp second.
func (s *TokenService) Verify(token string) (int64, error) {
	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrTokenMalformed
	}
	if !parsed.Valid || claims.Type != accessTokenType {
		return 0, ErrTokenMalformed
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return 0, ErrTokenMalformed
	}

	return userID, nil
}
