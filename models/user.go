package models

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserMatch is a search hit: the profile plus the email it was matched on.
type UserMatch struct {
	Profile
	Email string `json:"email"`
}
