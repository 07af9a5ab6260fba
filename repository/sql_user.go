package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todoshare/models"
)

type sqlUsers struct{ *sqlStore }

func (r *sqlUsers) Create(ctx context.Context, user *models.User) error {
	_, err := r.db.ExecContext(ctx, r.d.rebind(
		"INSERT INTO users (id, email, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"),
		user.ID, user.Email, user.Password, user.CreatedAt, user.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *sqlUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, "SELECT id, email, password, created_at, updated_at FROM users WHERE id = ?", id)
}

func (r *sqlUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "SELECT id, email, password, created_at, updated_at FROM users WHERE email = ?", email)
}

func (r *sqlUsers) findOne(ctx context.Context, query string, arg string) (*models.User, error) {
	var u models.User
	err := r.db.QueryRowContext(ctx, r.d.rebind(query), arg).
		Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}
