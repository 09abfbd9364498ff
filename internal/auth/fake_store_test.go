package auth

import (
	"context"
	"sync"
	"time"
)

type memStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]User
	err    error
}

func newMemStore() *memStore {
	return &memStore{users: make(map[string]User)}
}

func (s *memStore) Create(_ context.Context, username, passwordHash string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	if _, ok := s.users[username]; ok {
		return 0, ErrDuplicateUsername
	}
	s.nextID++
	s.users[username] = User{ID: s.nextID, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	return s.nextID, nil
}

func (s *memStore) GetByUsername(_ context.Context, username string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return User{}, s.err
	}
	user, ok := s.users[username]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}
