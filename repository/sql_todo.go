package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todoshare/models"
)

type sqlTodos struct{ *sqlStore }

const todoSelect = `
	SELECT t.id, t.text, t.completed, t.user_id, t.shared_by_user_id, t.created_at,
	       s.first_name, s.last_name, o.first_name, o.last_name
	FROM todos t
	LEFT JOIN profiles s ON s.id = t.shared_by_user_id
	LEFT JOIN profiles o ON o.id = t.user_id`

func (r *sqlTodos) Create(ctx context.Context, t *models.Todo) error {
	_, err := r.db.ExecContext(ctx, r.d.rebind(
		"INSERT INTO todos (id, text, completed, user_id, shared_by_user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)"),
		t.ID, t.Text, t.Completed, t.UserID, t.SharedByUserID, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	return nil
}

func (r *sqlTodos) FindByID(ctx context.Context, id string) (*models.Todo, error) {
	row := r.db.QueryRowContext(ctx, r.d.rebind(todoSelect+" WHERE t.id = ?"), id)
	t, err := scanTodo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query todo: %w", err)
	}
	return t, nil
}

func (r *sqlTodos) ToggleCompleted(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.d.rebind(
		"UPDATE todos SET completed = NOT completed WHERE id = ? AND user_id = ?"), id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle todo: %w", err)
	}
	return affected(res)
}

func (r *sqlTodos) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.d.rebind(
		"DELETE FROM todos WHERE id = ? AND user_id = ?"), id, ownerID)
	if err != nil {
		return false, fmt.Errorf("failed to delete todo: %w", err)
	}
	return affected(res)
}

func (r *sqlTodos) ListVisible(ctx context.Context, userID string) ([]models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, r.d.rebind(
		todoSelect+" WHERE t.user_id = ? OR t.shared_by_user_id = ? ORDER BY t.created_at DESC, t.id"),
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, *t)
	}
	return todos, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTodo(s scanner) (*models.Todo, error) {
	var t models.Todo
	if err := s.Scan(
		&t.ID, &t.Text, &t.Completed, &t.UserID, &t.SharedByUserID, &t.CreatedAt,
		&t.SharedByFirstName, &t.SharedByLastName, &t.AssignedToFirstName, &t.AssignedToLastName,
	); err != nil {
		return nil, err
	}
	if !t.IsShared() {
		t.SharedByUserID = nil
		t.SharedByFirstName, t.SharedByLastName = nil, nil
		t.AssignedToFirstName, t.AssignedToLastName = nil, nil
	}
	return &t, nil
}
