// Package memory provides the in-process stores that hold the tracker's state
// for the lifetime of the process.
package memory

import (
	"context"
	"sync"

	"github.com/sitepulse/progress-tracker/internal/core/domain"
)

// UserStore keeps users in creation order.
type UserStore struct {
	mu    sync.RWMutex
	users []domain.User
	index map[string]int
}

func NewUserStore() *UserStore {
	return &UserStore{index: make(map[string]int)}
}

func (s *UserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.index[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	s.index[user.Username] = len(s.users)
	s.users = append(s.users, *user)
	created := *user
	return &created, nil
}

func (s *UserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u := s.users[i]
	return &u, nil
}

func (s *UserStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.User(nil), s.users...), nil
}
