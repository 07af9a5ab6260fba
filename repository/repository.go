// Package repository is the data-access boundary. Every read returns fully
// joined, normalized values: a related profile is always a single struct,
// never a list.
package repository

import (
	"context"
	"errors"

	"todoshare/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByID(ctx context.Context, id string) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	// Search matches term case-insensitively against first name, last name
	// and email. excludeID and anyone sharing a blocked edge with it are
	// left out.
	Search(ctx context.Context, term, excludeID string, limit int) ([]models.UserMatch, error)
}

type FriendshipRepository interface {
	// Create returns ErrDuplicate when an edge already exists for the
	// unordered pair.
	Create(ctx context.Context, friendship *models.Friendship) error
	FindByID(ctx context.Context, id string) (*models.Friendship, error)
	// FindBetween looks for an edge in either direction.
	FindBetween(ctx context.Context, userA, userB string) (*models.Friendship, error)
	// UpdateStatus moves an edge from one status to another and reports
	// whether a row changed.
	UpdateStatus(ctx context.Context, id string, from, to models.FriendshipStatus) (bool, error)
	// DeleteIfStatus deletes the edge only while it has the given status.
	DeleteIfStatus(ctx context.Context, id string, status models.FriendshipStatus) (bool, error)
	// DeleteBetween removes the edge between the pair in either direction
	// when its status is one of statuses.
	DeleteBetween(ctx context.Context, userA, userB string, statuses ...models.FriendshipStatus) (bool, error)
	ListIncoming(ctx context.Context, recipientID string) ([]models.FriendRequest, error)
	ListOutgoing(ctx context.Context, requesterID string) ([]models.FriendRequest, error)
	// ListAcceptedProfiles returns the profile at the other end of every
	// accepted edge touching userID.
	ListAcceptedProfiles(ctx context.Context, userID string) ([]models.Profile, error)
}

type TodoRepository interface {
	Create(ctx context.Context, todo *models.Todo) error
	FindByID(ctx context.Context, id string) (*models.Todo, error)
	// ToggleCompleted flips completed for a todo owned by ownerID.
	ToggleCompleted(ctx context.Context, id, ownerID string) (bool, error)
	Delete(ctx context.Context, id, ownerID string) (bool, error)
	// ListVisible returns todos owned by userID or shared by userID, newest
	// first, with sharer and assignee names joined.
	ListVisible(ctx context.Context, userID string) ([]models.Todo, error)
}

// Repositories bundles one backend's implementations.
type Repositories struct {
	Users       UserRepository
	Profiles    ProfileRepository
	Friendships FriendshipRepository
	Todos       TodoRepository
}
