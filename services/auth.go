package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/crypto/bcrypt"
	"todoshare/models"
	"todoshare/repository"
	"todoshare/utils"
)

const minPasswordLength = 6

type AuthService struct {
	users    repository.UserRepository
	profiles *ProfileService
	secret   string
	tokenTTL time.Duration
	logger   *log.Logger
}

func NewAuthService(users repository.UserRepository, profiles *ProfileService, secret string, tokenTTL time.Duration, logger *log.Logger) *AuthService {
	return &AuthService{
		users:    users,
		profiles: profiles,
		secret:   secret,
		tokenTTL: tokenTTL,
		logger:   loggerOrDiscard(logger),
	}
}

type Session struct {
	Token   string          `json:"token"`
	Profile *models.Profile `json:"profile"`
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, email, password, firstName, lastName string) (*Session, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, validationError("a valid email is required")
	}
	if len(password) < minPasswordLength {
		return nil, validationError("password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError("failed to hash password", err)
	}

	now := time.Now()
	user := &models.User{
		ID:        utils.GenerateUUID(),
		Email:     email,
		Password:  string(hashed),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictError("email already registered")
		}
		return nil, internalError("failed to create user", err)
	}

	profile, err := s.profiles.Update(ctx, user.ID, models.ProfileUpdate{FirstName: &firstName, LastName: &lastName})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return s.session(ctx, user.ID, profile)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.FindByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, unauthorizedError("invalid email or password")
	}
	if err != nil {
		return nil, internalError("failed to load user", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, unauthorizedError("invalid email or password")
	}
	return s.session(ctx, user.ID, nil)
}

// Refresh issues a new token for an already authenticated user.
func (s *AuthService) Refresh(ctx context.Context, userID string) (*Session, error) {
	return s.session(ctx, userID, nil)
}

// LookupByEmail maps an email address to a user id. An unknown address is
// a not-found error, distinct from a backend failure.
func (s *AuthService) LookupByEmail(ctx context.Context, email string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return "", validationError("email is required")
	}
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return "", notFoundError("user not found")
	}
	if err != nil {
		return "", internalError("failed to look up user", err)
	}
	return user.ID, nil
}

func (s *AuthService) session(ctx context.Context, userID string, profile *models.Profile) (*Session, error) {
	if profile == nil {
		var err error
		if profile, err = s.profiles.Get(ctx, userID); err != nil {
			return nil, err
		}
	}
	token, err := utils.GenerateToken(s.secret, userID, s.tokenTTL)
	if err != nil {
		return nil, internalError("failed to generate token", err)
	}
	return &Session{Token: token, Profile: profile}, nil
}
