package users

import (
	"fmt"
	"strings"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/validators"
)

// Account status values
const (
	StatusActive   = 1
	StatusInactive = -1
	StatusDeleted  = 0
	// StatusPending accounts have not redeemed their activation link yet
	StatusPending = 2
)

// Roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents an account able to log in
type User struct {
	ID           string     `validate:"required,uuid4"`
	Username     string     `validate:"required,min=3,max=50"`
	Email        string     `validate:"required,email,max=100"`
	PasswordHash string     `validate:"required"`
	FirstName    string     `validate:"max=50"`
	LastName     string     `validate:"max=50"`
	Status       int        `validate:"oneof=-1 0 1 2"`
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

// Validate for validating User struct
func (u *User) Validate() error {
	return validators.Struct(u)
}

// IsActive reports whether the account may log in
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Role returns "admin" or "user"
func (u *User) Role() string {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// IsPendingActivation reports whether the account may still be activated by its owner
func (u *User) IsPendingActivation() bool {
	return u.Status == StatusPending
}

// StatusLabel maps Status to active, inactive, pending or deleted
func (u *User) StatusLabel() string {
	switch u.Status {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	case StatusPending:
		return "pending"
	default:
		return "deleted"
	}
}

// FullName joins first and last name, falling back to the username
func (u *User) FullName() string {
	name := strings.TrimSpace(fmt.Sprintf("%s %s", u.FirstName, u.LastName))
	if name == "" {
		return u.Username
	}
	return name
}

// SplitName splits a display name on its first space
func SplitName(name string) (first, last string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	first = parts[0]
	if len(parts) > 1 {
		last = strings.TrimSpace(parts[1])
	}
	return first, last
}

// UsernameFromEmail returns the local part of an email address
func UsernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
