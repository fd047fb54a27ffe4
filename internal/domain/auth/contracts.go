package auth

import (
	"context"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
)

// AuthService handles account self-service
type AuthService interface {
	// Register creates an active account and sends a welcome email.
	// Email delivery failures are logged, not returned.
	Register(ctx context.Context, input *RegisterInput) (*users.User, error)

	// Login verifies the credentials of an active account, records last_login and issues an access token
	Login(ctx context.Context, input *LoginInput) (*LoginResult, error)

	// ChangePassword replaces the password after checking the current one
	ChangePassword(ctx context.Context, userID string, input *ChangePasswordInput) error

	// ForgotPassword emails a reset link when the address is known.
	// Unknown addresses succeed silently.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword redeems a reset token
	ResetPassword(ctx context.Context, input *ResetPasswordInput) error

	// ResendActivation emails a fresh activation link to an inactive account
	ResendActivation(ctx context.Context, email string) error

	// ActivateAccount redeems an activation token
	ActivateAccount(ctx context.Context, token string) (*users.User, error)

	// Authenticate resolves an access token to an existing user
	Authenticate(ctx context.Context, token string) (*users.User, error)
}

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenIssuer signs and verifies access tokens
type TokenIssuer interface {
	Issue(userID, username string, now time.Time) (string, time.Time, error)
	Parse(token string) (*Claims, error)
}

// EmailSender delivers transactional emails
type EmailSender interface {
	Send(ctx context.Context, email *Email) error
}

// SecretGenerator creates random alphanumeric one-time tokens
type SecretGenerator interface {
	Generate(length int) (string, error)
}
