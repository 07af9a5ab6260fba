package services

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"todoshare/models"
	"todoshare/repository"
)

type ProfileService struct {
	profiles repository.ProfileRepository
	notifier Notifier
	logger   *log.Logger
}

func NewProfileService(profiles repository.ProfileRepository, notifier Notifier, logger *log.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, notifier: notifierOrNop(notifier), logger: loggerOrDiscard(logger)}
}

// Get returns the user's profile, creating an empty one on first access.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := s.profiles.FindByID(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalError("failed to load profile", err)
	}

	p = &models.Profile{ID: userID}
	err = s.profiles.Create(ctx, p)
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a concurrent create; the row exists now
		p, err = s.profiles.FindByID(ctx, userID)
	}
	if err != nil {
		return nil, internalError("failed to create profile", err)
	}
	s.logger.Debug("profile created", "user_id", userID)
	return p, nil
}

// Update applies upd to the caller's own profile.
func (s *ProfileService) Update(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	upd.Apply(p)
	if err := s.profiles.Update(ctx, p); err != nil {
		return nil, internalError("failed to update profile", err)
	}
	s.notifier.Notify(EventProfileChanged, userID)
	return p, nil
}

// SetAvatar points the profile at an already stored avatar url.
func (s *ProfileService) SetAvatar(ctx context.Context, userID, avatarURL string) (*models.Profile, error) {
	return s.Update(ctx, userID, models.ProfileUpdate{AvatarURL: &avatarURL})
}
