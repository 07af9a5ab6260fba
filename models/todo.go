package models

import "time"

type Todo struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	Completed      bool      `json:"completed"`
	UserID         string    `json:"user_id"`
	SharedByUserID *string   `json:"shared_by_user_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`

	// Joined from profiles on read; never written.
	SharedByFirstName   *string `json:"shared_by_first_name,omitempty"`
	SharedByLastName    *string `json:"shared_by_last_name,omitempty"`
	AssignedToFirstName *string `json:"assigned_to_first_name,omitempty"`
	AssignedToLastName  *string `json:"assigned_to_last_name,omitempty"`
}

// IsShared reports whether the todo was created for its owner by a friend.
func (t *Todo) IsShared() bool {
	return t.SharedByUserID != nil && *t.SharedByUserID != "" && *t.SharedByUserID != t.UserID
}

// SharedBy returns the sharer id, or "" for a private task.
func (t *Todo) SharedBy() string {
	if t.SharedByUserID == nil {
		return ""
	}
	return *t.SharedByUserID
}

type TodoStatusFilter string

const (
	FilterAll       TodoStatusFilter = "all"
	FilterActive    TodoStatusFilter = "active"
	FilterCompleted TodoStatusFilter = "completed"
)

type TodoSortOrder string

const (
	OrderNewest TodoSortOrder = "newest"
	OrderOldest TodoSortOrder = "oldest"
)

type TodoFilter struct {
	Query  string           `form:"q"`
	Status TodoStatusFilter `form:"status"`
	Order  TodoSortOrder    `form:"order"`
}

// TodoLists is the per-user projection of visible todos.
type TodoLists struct {
	Mine         []Todo `json:"mine"`
	SharedWithMe []Todo `json:"shared_with_me"`
	SharedByMe   []Todo `json:"shared_by_me"`
}

type TodoStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Active         int `json:"active"`
	CompletionRate int `json:"completion_rate"`
	Shared         int `json:"shared"`
}
