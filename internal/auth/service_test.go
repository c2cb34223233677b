package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newTestAccounts(t *testing.T) (*Accounts, *TokenService) {
	t.Helper()
	now := time.Now()
	tokens := newTestTokens(t, &now)
	return NewAccounts(NewInMemoryUsers(), tokens, WithBcryptCost(bcrypt.MinCost)), tokens
}

func TestSignupThenSignin(t *testing.T) {
	accounts, tokens := newTestAccounts(t)
	ctx := context.Background()

	for _, role := range []string{"BASIC", "ADMIN"} {
		name := "agent-" + role
		u, err := accounts.Signup(ctx, name, "s3cret", role)
		if err != nil {
			t.Fatalf("Signup(%s): %v", role, err)
		}
		if u.ID == "" || u.Role != Role(role) || u.PasswordHash == "s3cret" {
			t.Fatalf("unexpected user: %+v", u)
		}

		sess, err := accounts.Signin(ctx, name, "s3cret")
		if err != nil {
			t.Fatalf("Signin: %v", err)
		}
		id, err := tokens.Verify(sess.Token)
		if err != nil || id != u.ID {
			t.Fatalf("token resolves to %q (%v), want %q", id, err, u.ID)
		}
	}
}

func TestSignupRejections(t *testing.T) {
	accounts, _ := newTestAccounts(t)
	ctx := context.Background()

	if _, err := accounts.Signup(ctx, "m", "pw", "SUPERADMIN"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := accounts.Signup(ctx, "", "pw", "BASIC"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := accounts.Signup(ctx, "m", strings.Repeat("x", MaxPasswordBytes+1), "ADMIN"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for long password, got %v", err)
	}
	if _, err := accounts.Signup(ctx, "m", "pw", "ADMIN"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if _, err := accounts.Signup(ctx, "m", "other", "BASIC"); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestSigninRejectsBadCredentials(t *testing.T) {
	accounts, _ := newTestAccounts(t)
	ctx := context.Background()
	if _, err := accounts.Signup(ctx, "moneypenny", "right", "BASIC"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if _, err := accounts.Signin(ctx, "moneypenny", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := accounts.Signin(ctx, "nobody", "right"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
