package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"

	"market-directory/internal/apperr"
)

const (
	SchemePBKDF2 = "pbkdf2"
	SchemeBcrypt = "bcrypt"

	saltLength  = 16
	saltChars   = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxPassword = 256
)

var ErrPasswordTooLong = apperr.Validation("password is too long")

// Hasher produces and checks password hashes.
//
// PBKDF2 hashes use the werkzeug layout
//
//	pbkdf2:sha256:<iterations>$<salt>$<hex digest>
//
// so hashes written by werkzeug's generate_password_hash verify here too.
// Bcrypt hashes verify regardless of the configured scheme.
type Hasher struct {
	scheme     string
	iterations int
	bcryptCost int
}

func NewHasher(scheme string, iterations, bcryptCost int) (*Hasher, error) {
	switch scheme {
	case SchemePBKDF2:
		if iterations <= 0 {
			return nil, fmt.Errorf("pbkdf2 iterations must be positive")
		}
	case SchemeBcrypt:
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost out of range: %d", bcryptCost)
		}
	default:
		return nil, fmt.Errorf("unknown password hash scheme: %s", scheme)
	}

	return &Hasher{scheme: scheme, iterations: iterations, bcryptCost: bcryptCost}, nil
}

func (h *Hasher) Hash(password string) (string, error) {
	if len(password) > maxPassword {
		return "", ErrPasswordTooLong
	}

	if h.scheme == SchemeBcrypt {
		encoded, err := bcrypt.GenerateFromPassword([]byte(password), h.bcryptCost)
		if err != nil {
			if errors.Is(err, bcrypt.ErrPasswordTooLong) {
				return "", ErrPasswordTooLong
			}
			return "", fmt.Errorf("bcrypt hash: %w", err)
		}
		return string(encoded), nil
	}

	salt, err := randomSalt(saltLength)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	digest := pbkdf2.Key([]byte(password), []byte(salt), h.iterations, sha256.Size, sha256.New)

	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", h.iterations, salt, hex.EncodeToString(digest)), nil
}

// Verify reports whether password matches encoded. The work factor comes
// from encoded, not from the hasher's configuration.
func (h *Hasher) Verify(encoded, password string) bool {
	if strings.HasPrefix(encoded, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	}
	if strings.HasPrefix(encoded, "pbkdf2:") {
		return verifyPBKDF2(encoded, password)
	}
	return false
}

func verifyPBKDF2(encoded, password string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 3 {
		return false
	}
	method, salt, expectedHex := parts[0], parts[1], parts[2]

	fields := strings.Split(method, ":")
	if len(fields) != 3 {
		return false
	}
	newHash, size := hashFunc(fields[1])
	if newHash == nil {
		return false
	}
	iterations, err := strconv.Atoi(fields[2])
	if err != nil || iterations <= 0 {
		return false
	}

	expected, err := hex.DecodeString(expectedHex)
	if err != nil || len(expected) != size {
		return false
	}

	actual := pbkdf2.Key([]byte(password), []byte(salt), iterations, size, newHash)
	return subtle.ConstantTimeCompare(actual, expected) == 1
}

func hashFunc(name string) (func() hash.Hash, int) {
	switch name {
	case "sha256":
		return sha256.New, sha256.Size
	case "sha512":
		return sha512.New, sha512.Size
	default:
		return nil, 0
	}
}

// randomSalt draws uniformly from saltChars; bytes at or above the largest
// multiple of len(saltChars) are rejected.
func randomSalt(n int) (string, error) {
	const limit = 256 - 256%len(saltChars)

	out := make([]byte, 0, n)
	buf := make([]byte, 2*n)
	for len(out) < n {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, saltChars[int(b)%len(saltChars)])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
