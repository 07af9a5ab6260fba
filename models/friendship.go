package models

import "time"

type FriendshipStatus string

const (
	StatusPending  FriendshipStatus = "pending"
	StatusAccepted FriendshipStatus = "accepted"
	StatusBlocked  FriendshipStatus = "blocked"
)

// Friendship is a directed edge from the requester (UserID) to the
// recipient (FriendID). Only one edge may exist per unordered pair.
type Friendship struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	FriendID  string           `json:"friend_id"`
	Status    FriendshipStatus `json:"status"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Other returns the id at the opposite end of the edge from userID.
func (f *Friendship) Other(userID string) string {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

// Involves reports whether userID is either end of the edge.
func (f *Friendship) Involves(userID string) bool {
	return f.UserID == userID || f.FriendID == userID
}

// FriendRequest is a pending edge joined with the profile of the user on
// the other side: the requester for incoming, the recipient for outgoing.
type FriendRequest struct {
	Friendship
	Profile Profile `json:"profile"`
}

type FriendAction string

const (
	ActionAccept  FriendAction = "accept"
	ActionDecline FriendAction = "decline"
	ActionBlock   FriendAction = "block"
)
