package users

import (
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/validators"
)

// TokenLength is the number of alphanumeric characters in a one-time token
const TokenLength = 64

// TokenTTL is how long reset and activation tokens stay valid
const TokenTTL = 24 * time.Hour

// OneTimeToken is a single-use secret bound to a user
type OneTimeToken struct {
	ID        string    `validate:"required,uuid4"`
	UserID    string    `validate:"required"`
	Token     string    `validate:"required,alphanum,len=64"`
	CreatedAt time.Time `validate:"required"`
	ExpiresAt time.Time `validate:"required"`
}

// Validate for validating OneTimeToken struct
func (t *OneTimeToken) Validate() error {
	return validators.Struct(t)
}

// Expired reports whether the token is no longer usable at now
func (t *OneTimeToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// PasswordResetToken authorizes a single password reset
type PasswordResetToken struct {
	OneTimeToken
}

// ActivationToken authorizes a single account activation
type ActivationToken struct {
	OneTimeToken
}
