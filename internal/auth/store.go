package auth

import (
	"context"
	"sync"
	"time"

	"gadgetry.org/internal/ids"
)

// UserStore is the credential store the auth subsystem reads and writes.
type UserStore interface {
	// Create persists u, assigning ID and CreatedAt when empty.
	// It returns ErrDuplicateUsername if the username is taken.
	Create(ctx context.Context, u *User) error
	// Find returns ErrUserNotFound when id has no record.
	Find(ctx context.Context, id string) (*User, error)
	// FindByUsername returns ErrUserNotFound when username has no record.
	FindByUsername(ctx context.Context, username string) (*User, error)
}

var _ UserStore = (*InMemoryUsers)(nil)

// InMemoryUsers implements UserStore with in-process concurrency safety.
type InMemoryUsers struct {
	mu         sync.RWMutex
	byID       map[string]*User
	byUsername map[string]string
}

// NewInMemoryUsers creates an empty store.
func NewInMemoryUsers() *InMemoryUsers {
	return &InMemoryUsers{
		byID:       make(map[string]*User),
		byUsername: make(map[string]string),
	}
}

func (s *InMemoryUsers) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byUsername[u.Username]; ok {
		return ErrDuplicateUsername
	}
	if u.ID == "" {
		u.ID = ids.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	stored := *u
	s.byID[u.ID] = &stored
	s.byUsername[u.Username] = u.ID
	return nil
}

func (s *InMemoryUsers) Find(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (s *InMemoryUsers) FindByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	out := *s.byID[id]
	return &out, nil
}
