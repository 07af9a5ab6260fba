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

type sqlFriendships struct{ *sqlStore }

const friendshipColumns = "f.id, f.user_id, f.friend_id, f.status, f.created_at, f.updated_at"

func (r *sqlFriendships) Create(ctx context.Context, f *models.Friendship) error {
	_, err := r.db.ExecContext(ctx, r.d.rebind(
		"INSERT INTO friendships (id, user_id, friend_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)"),
		f.ID, f.UserID, f.FriendID, string(f.Status), f.CreatedAt, f.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert friendship: %w", err)
	}
	return nil
}

func (r *sqlFriendships) FindByID(ctx context.Context, id string) (*models.Friendship, error) {
	return r.findOne(ctx, "SELECT "+friendshipColumns+" FROM friendships f WHERE f.id = ?", id)
}

func (r *sqlFriendships) FindBetween(ctx context.Context, userA, userB string) (*models.Friendship, error) {
	return r.findOne(ctx,
		"SELECT "+friendshipColumns+" FROM friendships f WHERE (f.user_id = ? AND f.friend_id = ?) OR (f.user_id = ? AND f.friend_id = ?)",
		userA, userB, userB, userA,
	)
}

func (r *sqlFriendships) findOne(ctx context.Context, query string, args ...any) (*models.Friendship, error) {
	var f models.Friendship
	err := r.db.QueryRowContext(ctx, r.d.rebind(query), args...).
		Scan(&f.ID, &f.UserID, &f.FriendID, &f.Status, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query friendship: %w", err)
	}
	return &f, nil
}

func (r *sqlFriendships) UpdateStatus(ctx context.Context, id string, from, to models.FriendshipStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.d.rebind(
		"UPDATE friendships SET status = ?, updated_at = ? WHERE id = ? AND status = ?"),
		string(to), time.Now(), id, string(from),
	)
	if err != nil {
		return false, fmt.Errorf("failed to update friendship: %w", err)
	}
	return affected(res)
}

func (r *sqlFriendships) DeleteIfStatus(ctx context.Context, id string, status models.FriendshipStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.d.rebind(
		"DELETE FROM friendships WHERE id = ? AND status = ?"), id, string(status))
	if err != nil {
		return false, fmt.Errorf("failed to delete friendship: %w", err)
	}
	return affected(res)
}

func (r *sqlFriendships) DeleteBetween(ctx context.Context, userA, userB string, statuses ...models.FriendshipStatus) (bool, error) {
	if len(statuses) == 0 {
		return false, nil
	}
	args := []any{userA, userB, userB, userA}
	marks := make([]string, len(statuses))
	for i, s := range statuses {
		marks[i] = "?"
		args = append(args, string(s))
	}

	res, err := r.db.ExecContext(ctx, r.d.rebind(
		"DELETE FROM friendships WHERE ((user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)) AND status IN ("+
			strings.Join(marks, ", ")+")"),
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete friendship: %w", err)
	}
	return affected(res)
}

func (r *sqlFriendships) ListIncoming(ctx context.Context, recipientID string) ([]models.FriendRequest, error) {
	return r.listRequests(ctx, `
		SELECT `+friendshipColumns+`, u.id, p.first_name, p.last_name, p.avatar_url
		FROM friendships f
		JOIN users u ON u.id = f.user_id
		LEFT JOIN profiles p ON p.id = f.user_id
		WHERE f.friend_id = ? AND f.status = 'pending'
		ORDER BY f.created_at DESC, f.id`, recipientID)
}

func (r *sqlFriendships) ListOutgoing(ctx context.Context, requesterID string) ([]models.FriendRequest, error) {
	return r.listRequests(ctx, `
		SELECT `+friendshipColumns+`, u.id, p.first_name, p.last_name, p.avatar_url
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		LEFT JOIN profiles p ON p.id = f.friend_id
		WHERE f.user_id = ? AND f.status = 'pending'
		ORDER BY f.created_at DESC, f.id`, requesterID)
}

func (r *sqlFriendships) listRequests(ctx context.Context, query, userID string) ([]models.FriendRequest, error) {
	rows, err := r.db.QueryContext(ctx, r.d.rebind(query), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend requests: %w", err)
	}
	defer rows.Close()

	requests := []models.FriendRequest{}
	for rows.Next() {
		var fr models.FriendRequest
		if err := rows.Scan(
			&fr.ID, &fr.UserID, &fr.FriendID, &fr.Status, &fr.CreatedAt, &fr.UpdatedAt,
			&fr.Profile.ID, &fr.Profile.FirstName, &fr.Profile.LastName, &fr.Profile.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan friend request: %w", err)
		}
		requests = append(requests, fr)
	}
	return requests, rows.Err()
}

func (r *sqlFriendships) ListAcceptedProfiles(ctx context.Context, userID string) ([]models.Profile, error) {
	rows, err := r.db.QueryContext(ctx, r.d.rebind(`
		SELECT u.id, p.first_name, p.last_name, p.avatar_url
		FROM friendships f
		JOIN users u ON u.id = CASE WHEN f.user_id = ? THEN f.friend_id ELSE f.user_id END
		LEFT JOIN profiles p ON p.id = u.id
		WHERE (f.user_id = ? OR f.friend_id = ?) AND f.status = 'accepted'`),
		userID, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list friends: %w", err)
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan friend: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
