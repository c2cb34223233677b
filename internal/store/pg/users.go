package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"gadgetry.org/internal/auth"
	"gadgetry.org/internal/ids"
)

const uniqueViolation = "23505"

var _ auth.UserStore = (*Users)(nil)

// Users implements auth.UserStore.
type Users struct {
	db *sql.DB
}

func (s *Users) Create(ctx context.Context, u *auth.User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	err := s.db.QueryRowContext(ctx,
		`insert into users(id, username, password_hash, role) values($1,$2,$3,$4) returning created_at`,
		u.ID, u.Username, u.PasswordHash, string(u.Role),
	).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return auth.ErrDuplicateUsername
		}
		return err
	}
	return nil
}

func (s *Users) Find(ctx context.Context, id string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, username, password_hash, role, created_at from users where id=$1`, id)
	return scanUser(row)
}

func (s *Users) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, username, password_hash, role, created_at from users where username=$1`, username)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*auth.User, error) {
	var (
		u    auth.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	u.Role = auth.Role(role)
	return &u, nil
}
