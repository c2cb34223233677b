package auth

import (
	"context"
	"errors"
	"fmt"
)

// TokenVerifier resolves a session token to a user identifier.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Gate is the two-stage access check applied before protected operations:
// Authenticate proves a valid token, Authorize matches the caller's current role.
type Gate struct {
	tokens TokenVerifier
	users  UserStore
}

// NewGate builds a Gate over the token verifier and the credential store.
func NewGate(tokens TokenVerifier, users UserStore) *Gate {
	return &Gate{tokens: tokens, users: users}
}

// Authenticate returns the user identifier embedded in token.
func (g *Gate) Authenticate(token string) (string, error) {
	if token == "" {
		return "", ErrMissingToken
	}
	userID, err := g.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, ErrMissingToken) {
			return "", ErrMissingToken
		}
		return "", ErrInvalidToken
	}
	return userID, nil
}

// Authorize looks up the user's role on every call and requires an exact match.
// ADMIN does not satisfy a BASIC requirement.
func (g *Gate) Authorize(ctx context.Context, userID string, required Role) error {
	u, err := g.users.Find(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user role: %w", err)
	}
	if u.Role != required {
		return ErrForbidden
	}
	return nil
}
