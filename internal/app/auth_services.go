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

	"github.com/google/uuid"
)

// authService implements the AuthService interface
type authService struct {
	userRepo       users.UserRepository
	resetRepo      users.PasswordResetTokenRepository
	activationRepo users.ActivationTokenRepository
	hasher         auth.PasswordHasher
	issuer         auth.TokenIssuer
	secrets        auth.SecretGenerator
	mailer         auth.EmailSender
	frontendURL    string
	logger         logger.Logger
}

// NewAuthService creates a new authService instance
func NewAuthService(
	userRepo users.UserRepository,
	resetRepo users.PasswordResetTokenRepository,
	activationRepo users.ActivationTokenRepository,
	hasher auth.PasswordHasher,
	issuer auth.TokenIssuer,
	secrets auth.SecretGenerator,
	mailer auth.EmailSender,
	frontendURL string,
	logger logger.Logger,
) (auth.AuthService, error) {
	return &authService{
		userRepo:       userRepo,
		resetRepo:      resetRepo,
		activationRepo: activationRepo,
		hasher:         hasher,
		issuer:         issuer,
		secrets:        secrets,
		mailer:         mailer,
		frontendURL:    strings.TrimRight(frontendURL, "/"),
		logger:         logger,
	}, nil
}

// Register creates an active account and sends a welcome email
func (s *authService) Register(ctx context.Context, input *auth.RegisterInput) (*users.User, error) {
	if err := input.Validate(); err != nil {
		return nil, users.NewValidationError(err.Error())
	}

	if err := ensureAvailable(ctx, s.userRepo, input.Username, input.Email, ""); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &users.User{
		ID:           uuid.NewString(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Status:       users.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	s.notify(ctx, "welcome", user, s.frontendURL+"/login")
	return user, nil
}

// Login verifies the credentials of an active account and issues an access token
func (s *authService) Login(ctx context.Context, input *auth.LoginInput) (*auth.LoginResult, error) {
	if err := input.Validate(); err != nil {
		return nil, users.NewValidationError(err.Error())
	}

	user, err := s.userRepo.GetByUsernameOrEmail(ctx, input.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, input.Password) || !user.IsActive() {
		return nil, auth.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	token, expiresAt, err := s.issuer.Issue(user.ID, user.Username, now)
	if err != nil {
		return nil, err
	}

	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	s.logger.Info("User logged in: ", user.Username)
	return &auth.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ChangePassword replaces the password after checking the current one
func (s *authService) ChangePassword(ctx context.Context, userID string, input *auth.ChangePasswordInput) error {
	if err := input.Validate(); err != nil {
		return users.NewValidationError(err.Error())
	}
	if input.NewPassword == input.CurrentPassword {
		return auth.ErrSamePassword
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(user.PasswordHash, input.CurrentPassword) {
		return auth.ErrIncorrectPassword
	}

	return s.setPassword(ctx, user, input.NewPassword)
}

// ForgotPassword emails a reset link to a known address
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return users.NewValidationError("Email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil
		}
		return err
	}

	if err := s.resetRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return err
	}
	secret, err := s.newOneTimeToken(user.ID)
	if err != nil {
		return err
	}
	if err := s.resetRepo.Create(ctx, &users.PasswordResetToken{OneTimeToken: secret}); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	s.notify(ctx, "reset", user, s.frontendURL+"/reset-password?token="+secret.Token)
	return nil
}

// ResetPassword redeems a reset token
func (s *authService) ResetPassword(ctx context.Context, input *auth.ResetPasswordInput) error {
	if err := input.Validate(); err != nil {
		return users.NewValidationError(err.Error())
	}

	token, err := s.resetRepo.GetByToken(ctx, input.Token)
	if err != nil {
		return err
	}
	if token.Expired(time.Now().UTC()) {
		if err := s.resetRepo.DeleteByID(ctx, token.ID); err != nil {
			s.logger.Warn("Failed to delete expired reset token: ", err)
		}
		return auth.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	if err := s.setPassword(ctx, user, input.NewPassword); err != nil {
		return err
	}
	return s.resetRepo.DeleteByID(ctx, token.ID)
}

// ResendActivation emails a fresh activation link to an account pending activation.
// Unknown addresses succeed silently. Accounts disabled by an administrator are refused.
func (s *authService) ResendActivation(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return users.NewValidationError("Email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil
		}
		return err
	}
	if user.IsActive() {
		return auth.ErrAlreadyActive
	}
	if !user.IsPendingActivation() {
		return auth.ErrAccountDisabled
	}

	if err := s.activationRepo.DeleteByUserID(ctx, user.ID); err != nil {
		return err
	}
	secret, err := s.newOneTimeToken(user.ID)
	if err != nil {
		return err
	}
	if err := s.activationRepo.Create(ctx, &users.ActivationToken{OneTimeToken: secret}); err != nil {
		return fmt.Errorf("failed to generate activation token: %w", err)
	}

	s.notify(ctx, "activation", user, s.frontendURL+"/activate?token="+secret.Token)
	return nil
}

// ActivateAccount redeems an activation token of an account pending activation
func (s *authService) ActivateAccount(ctx context.Context, token string) (*users.User, error) {
	if token == "" {
		return nil, users.NewValidationError("Token is required")
	}

	activation, err := s.activationRepo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if activation.Expired(time.Now().UTC()) {
		if err := s.activationRepo.DeleteByID(ctx, activation.ID); err != nil {
			s.logger.Warn("Failed to delete expired activation token: ", err)
		}
		return nil, auth.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, activation.UserID)
	if err != nil {
		return nil, err
	}
	if !user.IsPendingActivation() {
		if err := s.activationRepo.DeleteByUserID(ctx, user.ID); err != nil {
			s.logger.Warn("Failed to delete activation tokens of ", user.ID, ": ", err)
		}
		if user.IsActive() {
			return nil, auth.ErrAlreadyActive
		}
		return nil, auth.ErrAccountDisabled
	}
	user.Status = users.StatusActive
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to activate account: %w", err)
	}
	if err := s.activationRepo.DeleteByID(ctx, activation.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Activated account ", user.ID)
	return user, nil
}

// Authenticate resolves an access token to an existing user
func (s *authService) Authenticate(ctx context.Context, token string) (*users.User, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, auth.ErrUnauthorized
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, auth.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) setPassword(ctx context.Context, user *users.User, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *authService) newOneTimeToken(userID string) (users.OneTimeToken, error) {
	secret, err := s.secrets.Generate(users.TokenLength)
	if err != nil {
		return users.OneTimeToken{}, err
	}
	now := time.Now().UTC()
	return users.OneTimeToken{
		ID:        uuid.NewString(),
		UserID:    userID,
		Token:     secret,
		CreatedAt: now,
		ExpiresAt: now.Add(users.TokenTTL),
	}, nil
}

// notify sends a templated email. Delivery failures are logged only.
func (s *authService) notify(ctx context.Context, kind string, user *users.User, link string) {
	email, err := renderEmail(kind, user.Email, emailData{
		Name:     firstNonEmpty(user.FirstName, user.Username),
		Username: user.Username,
		Email:    user.Email,
		Link:     link,
	})
	if err == nil {
		err = s.mailer.Send(ctx, email)
	}
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to send %s email to %s: %v", kind, user.Email, err))
	}
}

// ensureAvailable checks that username and email are not used by an account other than exceptID
func ensureAvailable(ctx context.Context, repo users.UserRepository, username, email, exceptID string) error {
	if username != "" {
		existing, err := repo.GetByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != exceptID:
			return users.ErrUsernameTaken
		case err != nil && !errors.Is(err, users.ErrUserNotFound):
			return err
		}
	}
	if email != "" {
		existing, err := repo.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != exceptID:
			return users.ErrEmailTaken
		case err != nil && !errors.Is(err, users.ErrUserNotFound):
			return err
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
