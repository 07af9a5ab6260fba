package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"todoshare/models"
	"todoshare/repository"
)

const (
	MinSearchTermLength = 3
	searchResultLimit   = 20
)

// FriendshipService owns the friend-request state machine:
//
//	pending --accept--> accepted
//	pending --decline--> (deleted)
//	pending --block--> blocked
//	pending|accepted --remove--> (deleted)
//
// Nothing returns to pending and blocked is terminal.
type FriendshipService struct {
	friendships repository.FriendshipRepository
	profiles    repository.ProfileRepository
	users       repository.UserRepository
	notifier    Notifier
	logger      *log.Logger
}

func NewFriendshipService(repos *repository.Repositories, notifier Notifier, logger *log.Logger) *FriendshipService {
	return &FriendshipService{
		friendships: repos.Friendships,
		profiles:    repos.Profiles,
		users:       repos.Users,
		notifier:    notifierOrNop(notifier),
		logger:      loggerOrDiscard(logger),
	}
}

func (s *FriendshipService) Search(ctx context.Context, term, excludeUserID string) ([]models.UserMatch, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) < MinSearchTermLength {
		return nil, validationError("please enter at least 3 characters to search")
	}
	matches, err := s.profiles.Search(ctx, term, excludeUserID, searchResultLimit)
	if err != nil {
		return nil, internalError("failed to search for users", err)
	}
	return matches, nil
}

func (s *FriendshipService) SendRequest(ctx context.Context, requesterID, recipientID string) (*models.Friendship, error) {
	if recipientID == "" {
		return nil, validationError("recipient is required")
	}
	if requesterID == recipientID {
		return nil, validationError("cannot friend self")
	}

	if _, err := s.users.FindByID(ctx, recipientID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFoundError("user not found")
		}
		return nil, internalError("failed to look up user", err)
	}

	existing, err := s.friendships.FindBetween(ctx, requesterID, recipientID)
	if err == nil {
		return nil, &ExistingFriendshipError{Status: existing.Status}
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalError("failed to check existing friendship", err)
	}

	now := time.Now()
	f := &models.Friendship{
		ID:        uuid.New().String(),
		UserID:    requesterID,
		FriendID:  recipientID,
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.friendships.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// A concurrent request for the same pair won.
			if existing, ferr := s.friendships.FindBetween(ctx, requesterID, recipientID); ferr == nil {
				return nil, &ExistingFriendshipError{Status: existing.Status}
			}
			return nil, conflictError("friend request already exists")
		}
		return nil, internalError("failed to send friend request", err)
	}

	s.logger.Info("friend request sent", "friendship_id", f.ID, "from", requesterID, "to", recipientID)
	s.notifier.Notify(EventFriendsChanged, requesterID, recipientID)
	return f, nil
}

// SendRequestByEmail resolves email to a user and sends them a request.
func (s *FriendshipService) SendRequestByEmail(ctx context.Context, requesterID, email string) (*models.Friendship, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, validationError("email is required")
	}
	u, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFoundError("user with that email was not found")
	}
	if err != nil {
		return nil, internalError("failed to look up user", err)
	}
	return s.SendRequest(ctx, requesterID, u.ID)
}

func (s *FriendshipService) ListIncoming(ctx context.Context, recipientID string) ([]models.FriendRequest, error) {
	reqs, err := s.friendships.ListIncoming(ctx, recipientID)
	if err != nil {
		return nil, internalError("could not fetch friend requests", err)
	}
	return reqs, nil
}

func (s *FriendshipService) ListOutgoing(ctx context.Context, requesterID string) ([]models.FriendRequest, error) {
	reqs, err := s.friendships.ListOutgoing(ctx, requesterID)
	if err != nil {
		return nil, internalError("could not fetch sent requests", err)
	}
	return reqs, nil
}

// Respond applies the recipient's decision to a pending request.
func (s *FriendshipService) Respond(ctx context.Context, actingUserID, friendshipID string, action models.FriendAction) error {
	switch action {
	case models.ActionAccept, models.ActionDecline, models.ActionBlock:
	default:
		return validationError("action must be accept, decline or block")
	}

	f, err := s.friendships.FindByID(ctx, friendshipID)
	if errors.Is(err, repository.ErrNotFound) {
		return notFoundError("friend request not found")
	}
	if err != nil {
		return internalError("failed to load friend request", err)
	}
	if f.FriendID != actingUserID {
		return forbiddenError("only the recipient can respond to a friend request")
	}
	if f.Status != models.StatusPending {
		return conflictError("friend request already processed")
	}

	var changed bool
	switch action {
	case models.ActionAccept:
		changed, err = s.friendships.UpdateStatus(ctx, f.ID, models.StatusPending, models.StatusAccepted)
	case models.ActionBlock:
		changed, err = s.friendships.UpdateStatus(ctx, f.ID, models.StatusPending, models.StatusBlocked)
	case models.ActionDecline:
		changed, err = s.friendships.DeleteIfStatus(ctx, f.ID, models.StatusPending)
	}
	if err != nil {
		return internalError("failed to "+string(action)+" friend request", err)
	}
	if !changed {
		return conflictError("friend request already processed")
	}

	s.logger.Info("friend request answered", "friendship_id", f.ID, "action", action)
	s.notifier.Notify(EventFriendsChanged, f.UserID, f.FriendID)
	return nil
}

// ListAccepted returns the profiles of the user's accepted friends,
// deduplicated and sorted by display name.
func (s *FriendshipService) ListAccepted(ctx context.Context, userID string) ([]models.Profile, error) {
	profiles, err := s.friendships.ListAcceptedProfiles(ctx, userID)
	if err != nil {
		return nil, internalError("failed to load friends list", err)
	}

	seen := make(map[string]bool, len(profiles))
	friends := make([]models.Profile, 0, len(profiles))
	for _, p := range profiles {
		if p.ID == "" || p.ID == userID || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		friends = append(friends, p)
	}
	sort.SliceStable(friends, func(i, j int) bool {
		a, b := strings.ToLower(friends[i].DisplayName()), strings.ToLower(friends[j].DisplayName())
		if a != b {
			return a < b
		}
		return friends[i].ID < friends[j].ID
	})
	return friends, nil
}

// Remove deletes the pending or accepted edge between two users. It is a
// no-op when none exists; blocked edges stay.
func (s *FriendshipService) Remove(ctx context.Context, userA, userB string) error {
	if userA == userB {
		return validationError("cannot unfriend self")
	}
	removed, err := s.friendships.DeleteBetween(ctx, userA, userB, models.StatusPending, models.StatusAccepted)
	if err != nil {
		return internalError("failed to remove friend", err)
	}
	if removed {
		s.logger.Info("friendship removed", "user", userA, "other", userB)
		s.notifier.Notify(EventFriendsChanged, userA, userB)
	}
	return nil
}

// AreFriends reports whether an accepted edge joins a and b.
func (s *FriendshipService) AreFriends(ctx context.Context, a, b string) (bool, error) {
	f, err := s.friendships.FindBetween(ctx, a, b)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return f.Status == models.StatusAccepted, nil
}
