package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"todoshare/models"
)

type sqlProfiles struct{ *sqlStore }

func (r *sqlProfiles) Create(ctx context.Context, p *models.Profile) error {
	now := time.Now()
	_, err := r.db.ExecContext(ctx, r.d.rebind(
		"INSERT INTO profiles (id, first_name, last_name, avatar_url, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"),
		p.ID, p.FirstName, p.LastName, p.AvatarURL, now, now,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

func (r *sqlProfiles) FindByID(ctx context.Context, id string) (*models.Profile, error) {
	var p models.Profile
	err := r.db.QueryRowContext(ctx, r.d.rebind(
		"SELECT id, first_name, last_name, avatar_url FROM profiles WHERE id = ?"), id,
	).Scan(&p.ID, &p.FirstName, &p.LastName, &p.AvatarURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}
	return &p, nil
}

func (r *sqlProfiles) Update(ctx context.Context, p *models.Profile) error {
	res, err := r.db.ExecContext(ctx, r.d.rebind(
		"UPDATE profiles SET first_name = ?, last_name = ?, avatar_url = ?, updated_at = ? WHERE id = ?"),
		p.FirstName, p.LastName, p.AvatarURL, time.Now(), p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	// updated_at always moves, so zero rows means the profile is missing.
	ok, err := affected(res)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (r *sqlProfiles) Search(ctx context.Context, term, excludeID string, limit int) ([]models.UserMatch, error) {
	pattern := "%" + escapeLikePattern(strings.ToLower(term)) + "%"

	rows, err := r.db.QueryContext(ctx, r.d.rebind(`
		SELECT p.id, p.first_name, p.last_name, p.avatar_url, u.email
		FROM profiles p
		JOIN users u ON u.id = p.id
		WHERE p.id <> ?
		  AND (LOWER(COALESCE(p.first_name, '')) LIKE ?
		       OR LOWER(COALESCE(p.last_name, '')) LIKE ?
		       OR LOWER(u.email) LIKE ?)
		  AND NOT EXISTS (
		      SELECT 1 FROM friendships f
		      WHERE f.status = 'blocked'
		        AND ((f.user_id = ? AND f.friend_id = p.id) OR (f.user_id = p.id AND f.friend_id = ?)))
		ORDER BY p.first_name, p.last_name, p.id
		LIMIT ?`),
		excludeID, pattern, pattern, pattern, excludeID, excludeID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	defer rows.Close()

	matches := []models.UserMatch{}
	for rows.Next() {
		var m models.UserMatch
		if err := rows.Scan(&m.ID, &m.FirstName, &m.LastName, &m.AvatarURL, &m.Email); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
