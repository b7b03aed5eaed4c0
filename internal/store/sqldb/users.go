package sqldb

import (
	"context"
	"database/sql"
	"errors"

	"github.com/cinevault/cinevault-server/internal/domain"
	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
)

// CreateUser inserts a user. A duplicate email is classified as CONFLICT.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO users (email, hash) VALUES (?, ?)`), user.Email, user.Hash)
	if err != nil {
		return s.fail("create user", err)
	}
	return nil
}

// GetUserByEmail returns the user with the exact email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx, s.rebind(`SELECT email, hash FROM users WHERE email = ?`), email).Scan(&u.Email, &u.Hash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domainerrors.NotFound("user not found")
	}
	if err != nil {
		return nil, s.fail("get user", err)
	}
	return &u, nil
}
