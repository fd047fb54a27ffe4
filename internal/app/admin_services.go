package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/validators"

	"github.com/google/uuid"
)

// adminService implements the AdminService interface
type adminService struct {
	userRepo users.UserRepository
	hasher   auth.PasswordHasher
	logger   logger.Logger
}

// NewAdminService creates a new adminService instance
func NewAdminService(userRepo users.UserRepository, hasher auth.PasswordHasher, logger logger.Logger) (users.AdminService, error) {
	return &adminService{
		userRepo: userRepo,
		hasher:   hasher,
		logger:   logger,
	}, nil
}

// List returns every account
func (s *adminService) List(ctx context.Context) ([]*users.User, error) {
	return s.userRepo.List(ctx)
}

// GetByID returns one account
func (s *adminService) GetByID(ctx context.Context, userID string) (*users.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// Create stores an active account whose username is derived from the email
func (s *adminService) Create(ctx context.Context, input *users.CreateUserInput) (*users.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	switch {
	case name == "":
		return nil, users.NewValidationError("Name is required")
	case email == "":
		return nil, users.NewValidationError("Email is required")
	case input.Password == "":
		return nil, users.NewValidationError("Password is required")
	}
	if problems := validators.PasswordStrengthErrors(input.Password); len(problems) > 0 {
		return nil, users.NewValidationError(strings.Join(problems, "; "))
	}
	if err := ensureAvailable(ctx, s.userRepo, "", email, ""); err != nil {
		return nil, err
	}

	username, err := s.freeUsername(ctx, users.UsernameFromEmail(email))
	if err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	first, last := users.SplitName(name)
	now := time.Now().UTC()
	user := &users.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		Status:       users.StatusActive,
		IsAdmin:      input.Role == users.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := user.Validate(); err != nil {
		return nil, users.NewValidationError(err.Error())
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return user, nil
}

// Update applies the non-nil fields of input
func (s *adminService) Update(ctx context.Context, userID string, input *users.UpdateUserInput) (*users.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, users.NewValidationError("Name is required")
		}
		user.FirstName, user.LastName = users.SplitName(name)
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, users.NewValidationError("Email is required")
		}
		if err := ensureAvailable(ctx, s.userRepo, "", email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.Role != nil {
		user.IsAdmin = *input.Role == users.RoleAdmin
	}

	user.UpdatedAt = time.Now().UTC()
	if err := user.Validate(); err != nil {
		return nil, users.NewValidationError(err.Error())
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}

// Delete soft-deletes the account by marking it inactive
func (s *adminService) Delete(ctx context.Context, userID string) error {
	_, err := s.setStatus(ctx, userID, users.StatusInactive)
	return err
}

// Activate sets the account status to active
func (s *adminService) Activate(ctx context.Context, userID string) (*users.User, error) {
	return s.setStatus(ctx, userID, users.StatusActive)
}

// Deactivate sets the account status to inactive
func (s *adminService) Deactivate(ctx context.Context, userID string) (*users.User, error) {
	return s.setStatus(ctx, userID, users.StatusInactive)
}

func (s *adminService) setStatus(ctx context.Context, userID string, status int) (*users.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Status = status
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info(fmt.Sprintf("Set status of user %s to %s", user.ID, user.StatusLabel()))
	return user, nil
}

// freeUsername returns base when unused, otherwise base with a short random suffix
func (s *adminService) freeUsername(ctx context.Context, base string) (string, error) {
	if len(base) > 45 {
		base = base[:45]
	}
	candidate := base
	for attempt := 0; attempt < 5; attempt++ {
		if len(candidate) >= 3 {
			_, err := s.userRepo.GetByUsername(ctx, candidate)
			if errors.Is(err, users.ErrUserNotFound) {
				return candidate, nil
			}
			if err != nil {
				return "", err
			}
		}
		candidate = fmt.Sprintf("%s_%s", base, uuid.NewString()[:4])
	}
	return "", users.ErrUsernameTaken
}
