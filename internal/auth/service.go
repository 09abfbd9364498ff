package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"market-directory/internal/apperr"
)

const maxUsernameLength = 50

var ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperr.ErrUnauthorized)

var errMissingCredentials = apperr.Validation("Username and password are required")

type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (int64, error)
	GetByUsername(ctx context.Context, username string) (User, error)
}

type Service struct {
	users  UserStore
	hasher *Hasher
	tokens *TokenService

	dummyOnce sync.Once
	dummyHash string
}

func NewService(users UserStore, hasher *Hasher, tokens *TokenService) *Service {
	return &Service{users: users, hasher: hasher, tokens: tokens}
}

func (s *Service) Register(ctx context.Context, username, password string) (int64, error) {
	username, err := normalizeCredentials(username, password)
	if err != nil {
		return 0, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return 0, err
	}

	id, err := s.users.Create(ctx, username, hash)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Authenticate checks the credentials. An unknown username and a wrong
// password both yield ErrInvalidCredentials, and both pay for one hash.
func (s *Service) Authenticate(ctx context.Context, username, password string) (int64, error) {
	username, err := normalizeCredentials(username, password)
	if err != nil {
		return 0, err
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.hasher.Verify(s.dummy(), password)
			return 0, ErrInvalidCredentials
		}
		return 0, err
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return 0, ErrInvalidCredentials
	}

	return user.ID, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (AccessToken, error) {
	userID, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return AccessToken{}, err
	}
	return s.tokens.Issue(userID)
}

func (s *Service) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password")
	})
	return s.dummyHash
}

func normalizeCredentials(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", errMissingCredentials
	}
	if !utf8.ValidString(username) || utf8.RuneCountInString(username) > maxUsernameLength {
		return "", apperr.Validationf("username must be at most %d characters", maxUsernameLength)
	}
	return username, nil
}
