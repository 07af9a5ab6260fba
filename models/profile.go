package models

import "strings"

type Profile struct {
	ID        string  `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
}

// ProfileUpdate carries the fields a user may change on their own profile.
// A nil field is left as is.
type ProfileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	AvatarURL *string `json:"avatar_url"`
}

// Apply copies the non-nil fields of u onto p. Empty strings clear the field.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.FirstName != nil {
		p.FirstName = nilIfEmpty(*u.FirstName)
	}
	if u.LastName != nil {
		p.LastName = nilIfEmpty(*u.LastName)
	}
	if u.AvatarURL != nil {
		p.AvatarURL = nilIfEmpty(*u.AvatarURL)
	}
}

// DisplayName joins first and last name, falling back to a short id.
func (p Profile) DisplayName() string {
	name := strings.TrimSpace(deref(p.FirstName) + " " + deref(p.LastName))
	if name != "" {
		return name
	}
	if len(p.ID) > 8 {
		return p.ID[:8]
	}
	return p.ID
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nilIfEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
