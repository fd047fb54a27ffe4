package users

import (
	"context"
)

// UserRepository persists users
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, userID string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByUsernameOrEmail looks the login identifier up in both columns
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, user *User) error
}

// PasswordResetTokenRepository persists password reset tokens
type PasswordResetTokenRepository interface {
	Create(ctx context.Context, token *PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*PasswordResetToken, error)
	DeleteByID(ctx context.Context, tokenID string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// ActivationTokenRepository persists account activation tokens
type ActivationTokenRepository interface {
	Create(ctx context.Context, token *ActivationToken) error
	GetByToken(ctx context.Context, token string) (*ActivationToken, error)
	DeleteByID(ctx context.Context, tokenID string) error
	DeleteByUserID(ctx context.Context, userID string) error
}

// CreateUserInput carries an admin-created account
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateUserInput carries a partial account update; nil fields are left untouched
type UpdateUserInput struct {
	Name  *string
	Email *string
	Role  *string
}

// AdminService manages accounts on behalf of administrators
type AdminService interface {
	// List returns every account, including soft-deleted ones
	List(ctx context.Context) ([]*User, error)

	// GetByID returns one account or ErrUserNotFound
	GetByID(ctx context.Context, userID string) (*User, error)

	// Create validates the input, enforces the password strength rules and stores an active account
	Create(ctx context.Context, input *CreateUserInput) (*User, error)

	// Update applies the non-nil fields of input
	Update(ctx context.Context, userID string, input *UpdateUserInput) (*User, error)

	// Delete soft-deletes the account by marking it inactive
	Delete(ctx context.Context, userID string) error

	// Activate sets the account status to active
	Activate(ctx context.Context, userID string) (*User, error)

	// Deactivate sets the account status to inactive
	Deactivate(ctx context.Context, userID string) (*User, error)
}
