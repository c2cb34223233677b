package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Session is the result of a successful sign-in.
type Session struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
}

// Accounts handles registration and sign-in.
type Accounts struct {
	users      UserStore
	tokens     *TokenService
	bcryptCost int
}

// AccountsOption configures Accounts.
type AccountsOption func(*Accounts)

// WithBcryptCost sets the password hashing cost; zero keeps bcrypt's default.
func WithBcryptCost(cost int) AccountsOption {
	return func(a *Accounts) { a.bcryptCost = cost }
}

// NewAccounts constructs Accounts.
func NewAccounts(users UserStore, tokens *TokenService, opts ...AccountsOption) *Accounts {
	a := &Accounts{users: users, tokens: tokens}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Signup validates the role, rejects taken usernames and stores a bcrypt hash of password.
func (a *Accounts) Signup(ctx context.Context, username, password, role string) (*User, error) {
	r, err := ParseRole(role)
	if err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}
	if len(password) > MaxPasswordBytes {
		return nil, fmt.Errorf("%w: password must be at most %d bytes", ErrInvalidInput, MaxPasswordBytes)
	}

	if _, err := a.users.FindByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUsername
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := HashPassword(password, a.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &User{Username: username, PasswordHash: hash, Role: r}
	if err := a.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicateUsername) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Signin checks the password and issues a session token.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (a *Accounts) Signin(ctx context.Context, username, password string) (Session, error) {
	u, err := a.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("lookup username: %w", err)
	}
	if err := VerifyPassword(u.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	token, exp, err := a.tokens.Issue(u.ID)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: exp, UserID: u.ID}, nil
}
