package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"todoshare/models"
)

// memoryStore keeps every table in process. All four repositories share
// one lock so joins see a consistent snapshot and the pair uniqueness
// check is atomic with the insert.
type memoryStore struct {
	mu          sync.RWMutex
	users       map[string]models.User
	emails      map[string]string
	profiles    map[string]models.Profile
	friendships map[string]models.Friendship
	todos       map[string]models.Todo
}

// NewMemory returns repositories backed by in-process maps.
func NewMemory() *Repositories {
	s := &memoryStore{
		users:       make(map[string]models.User),
		emails:      make(map[string]string),
		profiles:    make(map[string]models.Profile),
		friendships: make(map[string]models.Friendship),
		todos:       make(map[string]models.Todo),
	}
	return &Repositories{
		Users:       &memUsers{s},
		Profiles:    &memProfiles{s},
		Friendships: &memFriendships{s},
		Todos:       &memTodos{s},
	}
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneProfile(p models.Profile) models.Profile {
	p.FirstName = cloneStr(p.FirstName)
	p.LastName = cloneStr(p.LastName)
	p.AvatarURL = cloneStr(p.AvatarURL)
	return p
}

// profileFor mirrors the LEFT JOIN on profiles: a user without a profile
// row still yields its id.
func (s *memoryStore) profileFor(id string) models.Profile {
	if p, ok := s.profiles[id]; ok {
		return cloneProfile(p)
	}
	return models.Profile{ID: id}
}

func (s *memoryStore) edgeBetween(a, b string) (models.Friendship, bool) {
	for _, f := range s.friendships {
		if (f.UserID == a && f.FriendID == b) || (f.UserID == b && f.FriendID == a) {
			return f, true
		}
	}
	return models.Friendship{}, false
}

type memUsers struct{ *memoryStore }

func (r *memUsers) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; ok {
		return ErrDuplicate
	}
	if _, ok := r.emails[user.Email]; ok {
		return ErrDuplicate
	}
	r.users[user.ID] = *user
	r.emails[user.Email] = user.ID
	return nil
}

func (r *memUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.emails[email]
	if !ok {
		return nil, ErrNotFound
	}
	u := r.users[id]
	return &u, nil
}

type memProfiles struct{ *memoryStore }

func (r *memProfiles) Create(_ context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; ok {
		return ErrDuplicate
	}
	r.profiles[p.ID] = cloneProfile(*p)
	return nil
}

func (r *memProfiles) FindByID(_ context.Context, id string) (*models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	p = cloneProfile(p)
	return &p, nil
}

func (r *memProfiles) Update(_ context.Context, p *models.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[p.ID]; !ok {
		return ErrNotFound
	}
	r.profiles[p.ID] = cloneProfile(*p)
	return nil
}

func (r *memProfiles) Search(_ context.Context, term, excludeID string, limit int) ([]models.UserMatch, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	term = strings.ToLower(term)
	contains := func(s *string) bool {
		return s != nil && strings.Contains(strings.ToLower(*s), term)
	}

	matches := []models.UserMatch{}
	for id, p := range r.profiles {
		if id == excludeID {
			continue
		}
		u, ok := r.users[id]
		if !ok {
			continue
		}
		if !contains(p.FirstName) && !contains(p.LastName) && !strings.Contains(strings.ToLower(u.Email), term) {
			continue
		}
		if f, ok := r.edgeBetween(excludeID, id); ok && f.Status == models.StatusBlocked {
			continue
		}
		matches = append(matches, models.UserMatch{Profile: cloneProfile(p), Email: u.Email})
	}

	sort.Slice(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if fa, fb := strOrEmpty(a.FirstName), strOrEmpty(b.FirstName); fa != fb {
			return fa < fb
		}
		if la, lb := strOrEmpty(a.LastName), strOrEmpty(b.LastName); la != lb {
			return la < lb
		}
		return a.ID < b.ID
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type memFriendships struct{ *memoryStore }

func (r *memFriendships) Create(_ context.Context, f *models.Friendship) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.edgeBetween(f.UserID, f.FriendID); ok {
		return ErrDuplicate
	}
	r.friendships[f.ID] = *f
	return nil
}

func (r *memFriendships) FindByID(_ context.Context, id string) (*models.Friendship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.friendships[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (r *memFriendships) FindBetween(_ context.Context, userA, userB string) (*models.Friendship, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.edgeBetween(userA, userB)
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (r *memFriendships) UpdateStatus(_ context.Context, id string, from, to models.FriendshipStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.friendships[id]
	if !ok || f.Status != from {
		return false, nil
	}
	f.Status = to
	f.UpdatedAt = time.Now()
	r.friendships[id] = f
	return true, nil
}

func (r *memFriendships) DeleteIfStatus(_ context.Context, id string, status models.FriendshipStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.friendships[id]
	if !ok || f.Status != status {
		return false, nil
	}
	delete(r.friendships, id)
	return true, nil
}

func (r *memFriendships) DeleteBetween(_ context.Context, userA, userB string, statuses ...models.FriendshipStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.edgeBetween(userA, userB)
	if !ok {
		return false, nil
	}
	for _, s := range statuses {
		if f.Status == s {
			delete(r.friendships, f.ID)
			return true, nil
		}
	}
	return false, nil
}

func (r *memFriendships) ListIncoming(_ context.Context, recipientID string) ([]models.FriendRequest, error) {
	return r.listPending(func(f models.Friendship) (string, bool) {
		return f.UserID, f.FriendID == recipientID
	}), nil
}

func (r *memFriendships) ListOutgoing(_ context.Context, requesterID string) ([]models.FriendRequest, error) {
	return r.listPending(func(f models.Friendship) (string, bool) {
		return f.FriendID, f.UserID == requesterID
	}), nil
}

// listPending collects pending edges accepted by match, joined with the
// profile of the id match returns.
func (r *memFriendships) listPending(match func(models.Friendship) (string, bool)) []models.FriendRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requests := []models.FriendRequest{}
	for _, f := range r.friendships {
		if f.Status != models.StatusPending {
			continue
		}
		other, ok := match(f)
		if !ok {
			continue
		}
		if _, exists := r.users[other]; !exists {
			continue
		}
		requests = append(requests, models.FriendRequest{Friendship: f, Profile: r.profileFor(other)})
	}
	sort.Slice(requests, func(i, j int) bool {
		if !requests[i].CreatedAt.Equal(requests[j].CreatedAt) {
			return requests[i].CreatedAt.After(requests[j].CreatedAt)
		}
		return requests[i].ID < requests[j].ID
	})
	return requests
}

func (r *memFriendships) ListAcceptedProfiles(_ context.Context, userID string) ([]models.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := []models.Profile{}
	for _, f := range r.friendships {
		if f.Status != models.StatusAccepted || !f.Involves(userID) {
			continue
		}
		other := f.Other(userID)
		if _, ok := r.users[other]; !ok {
			continue
		}
		profiles = append(profiles, r.profileFor(other))
	}
	return profiles, nil
}

type memTodos struct{ *memoryStore }

func (r *memTodos) Create(_ context.Context, t *models.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[t.ID]; ok {
		return ErrDuplicate
	}
	stored := *t
	stored.SharedByUserID = cloneStr(t.SharedByUserID)
	stored.SharedByFirstName, stored.SharedByLastName = nil, nil
	stored.AssignedToFirstName, stored.AssignedToLastName = nil, nil
	r.todos[t.ID] = stored
	return nil
}

// joined fills in the names a SQL read would join from profiles.
func (r *memTodos) joined(t models.Todo) models.Todo {
	t.SharedByUserID = cloneStr(t.SharedByUserID)
	if !t.IsShared() {
		t.SharedByUserID = nil
		return t
	}
	sharer := r.profileFor(*t.SharedByUserID)
	owner := r.profileFor(t.UserID)
	t.SharedByFirstName, t.SharedByLastName = sharer.FirstName, sharer.LastName
	t.AssignedToFirstName, t.AssignedToLastName = owner.FirstName, owner.LastName
	return t
}

func (r *memTodos) FindByID(_ context.Context, id string) (*models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.todos[id]
	if !ok {
		return nil, ErrNotFound
	}
	t = r.joined(t)
	return &t, nil
}

func (r *memTodos) ToggleCompleted(_ context.Context, id, ownerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok || t.UserID != ownerID {
		return false, nil
	}
	t.Completed = !t.Completed
	r.todos[id] = t
	return true, nil
}

func (r *memTodos) Delete(_ context.Context, id, ownerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.todos[id]
	if !ok || t.UserID != ownerID {
		return false, nil
	}
	delete(r.todos, id)
	return true, nil
}

func (r *memTodos) ListVisible(_ context.Context, userID string) ([]models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := []models.Todo{}
	for _, t := range r.todos {
		if t.UserID == userID || t.SharedBy() == userID {
			todos = append(todos, r.joined(t))
		}
	}
	sort.Slice(todos, func(i, j int) bool {
		if !todos[i].CreatedAt.Equal(todos[j].CreatedAt) {
			return todos[i].CreatedAt.After(todos[j].CreatedAt)
		}
		return todos[i].ID < todos[j].ID
	})
	return todos, nil
}
