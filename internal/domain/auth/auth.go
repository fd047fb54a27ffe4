package auth

import (
	"errors"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/validators"
)

// Errors surfaced to clients by the auth endpoints
var (
	ErrInvalidCredentials = errors.New("Invalid username/email or password")
	ErrIncorrectPassword  = errors.New("Current password is incorrect")
	ErrSamePassword       = errors.New("New password must be different from current password")
	ErrTokenExpired       = errors.New("Token has expired")
	ErrUnauthorized       = errors.New("Token is invalid or expired")
	ErrAlreadyActive      = errors.New("Account is already active")
	ErrAccountDisabled    = errors.New("Account has been disabled by an administrator")
)

// RegisterInput is a self-service sign-up
type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email,max=100"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"max=50"`
	LastName        string `json:"last_name" validate:"max=50"`
}

// Validate for validating RegisterInput struct
func (i *RegisterInput) Validate() error {
	return validators.Struct(i)
}

// LoginInput identifies the user by username or email
type LoginInput struct {
	UsernameOrEmail string `json:"username_or_email" validate:"required"`
	Password        string `json:"password" validate:"required"`
	RememberMe      bool   `json:"remember_me"`
}

// Validate for validating LoginInput struct
func (i *LoginInput) Validate() error {
	return validators.Struct(i)
}

// ChangePasswordInput replaces the password of the logged-in user
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// Validate for validating ChangePasswordInput struct
func (i *ChangePasswordInput) Validate() error {
	return validators.Struct(i)
}

// ResetPasswordInput redeems a reset token
type ResetPasswordInput struct {
	Token           string `json:"token" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

// Validate for validating ResetPasswordInput struct
func (i *ResetPasswordInput) Validate() error {
	return validators.Struct(i)
}

// LoginResult is returned on successful login
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *users.User
}

// Claims are the values carried by an access token
type Claims struct {
	UserID    string
	Username  string
	ExpiresAt time.Time
}

// Email is an outgoing HTML message
type Email struct {
	To      string
	Subject string
	HTML    string
}
