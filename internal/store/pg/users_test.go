package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"gadgetry.org/internal/auth"
)

func TestUsersCreate(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`insert into users\(id, username, password_hash, role\) values\(\$1,\$2,\$3,\$4\) returning created_at`).
		WithArgs(sqlmock.AnyArg(), "bond", "hash", "BASIC").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	u := &auth.User{Username: "bond", PasswordHash: "hash", Role: auth.RoleBasic}
	if err := store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" || !u.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUsersCreateDuplicate(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(`insert into users`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"})

	err := store.Users().Create(context.Background(), &auth.User{Username: "bond", PasswordHash: "h", Role: auth.RoleAdmin})
	if !errors.Is(err, auth.ErrDuplicateUsername) {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}
}

func TestUsersFind(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now().UTC()
	cols := []string{"id", "username", "password_hash", "role", "created_at"}

	mock.ExpectQuery(`select id, username, password_hash, role, created_at from users where id=\$1`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(cols).AddRow("u1", "q", "hash", "ADMIN", now))
	mock.ExpectQuery(`from users where username=\$1`).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(cols))

	u, err := store.Users().Find(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if u.Role != auth.RoleAdmin || u.Username != "q" {
		t.Fatalf("unexpected user: %+v", u)
	}

	if _, err := store.Users().FindByUsername(context.Background(), "nobody"); !errors.Is(err, auth.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
