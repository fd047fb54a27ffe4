package models

import (
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
)

// UserModel is the GORM model for users
type UserModel struct {
	ID        string     `gorm:"primaryKey;type:char(36)"`
	Username  string     `gorm:"type:varchar(50);uniqueIndex;not null"`
	Email     string     `gorm:"type:varchar(100);uniqueIndex;not null"`
	Password  string     `gorm:"type:varchar(255);not null"`
	FirstName *string    `gorm:"type:varchar(50)"`
	LastName  *string    `gorm:"type:varchar(50)"`
	IsActive  int        `gorm:"not null"`
	IsAdmin   bool       `gorm:"not null"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
	LastLogin *time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts GORM model to domain entity
func (m *UserModel) ToDomain() *users.User {
	return &users.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.Password,
		FirstName:    derefString(m.FirstName),
		LastName:     derefString(m.LastName),
		Status:       m.IsActive,
		IsAdmin:      m.IsAdmin,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		LastLogin:    m.LastLogin,
	}
}

// FromDomain converts domain entity to GORM model
func (m *UserModel) FromDomain(u *users.User) {
	m.ID = u.ID
	m.Username = u.Username
	m.Email = u.Email
	m.Password = u.PasswordHash
	m.FirstName = optionalString(u.FirstName)
	m.LastName = optionalString(u.LastName)
	m.IsActive = u.Status
	m.IsAdmin = u.IsAdmin
	m.CreatedAt = u.CreatedAt
	m.UpdatedAt = u.UpdatedAt
	m.LastLogin = u.LastLogin
}

// OneTimeTokenColumns are shared by the reset and activation token tables
type OneTimeTokenColumns struct {
	ID        string    `gorm:"primaryKey;type:char(36)"`
	UserID    string    `gorm:"type:char(36);index;not null"`
	Token     string    `gorm:"type:varchar(100);uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"not null"`
	ExpiresAt time.Time `gorm:"not null"`
}

func (c *OneTimeTokenColumns) toDomain() users.OneTimeToken {
	return users.OneTimeToken{
		ID:        c.ID,
		UserID:    c.UserID,
		Token:     c.Token,
		CreatedAt: c.CreatedAt,
		ExpiresAt: c.ExpiresAt,
	}
}

func (c *OneTimeTokenColumns) fromDomain(t *users.OneTimeToken) {
	c.ID = t.ID
	c.UserID = t.UserID
	c.Token = t.Token
	c.CreatedAt = t.CreatedAt
	c.ExpiresAt = t.ExpiresAt
}

// PasswordResetTokenModel is the GORM model for password reset tokens
type PasswordResetTokenModel struct {
	OneTimeTokenColumns `gorm:"embedded"`
}

// TableName specifies the table name for GORM
func (PasswordResetTokenModel) TableName() string {
	return "password_reset_tokens"
}

// ToDomain converts GORM model to domain entity
func (m *PasswordResetTokenModel) ToDomain() *users.PasswordResetToken {
	return &users.PasswordResetToken{OneTimeToken: m.toDomain()}
}

// FromDomain converts domain entity to GORM model
func (m *PasswordResetTokenModel) FromDomain(t *users.PasswordResetToken) {
	m.fromDomain(&t.OneTimeToken)
}

// ActivationTokenModel is the GORM model for account activation tokens
type ActivationTokenModel struct {
	OneTimeTokenColumns `gorm:"embedded"`
}

// TableName specifies the table name for GORM
func (ActivationTokenModel) TableName() string {
	return "activation_tokens"
}

// ToDomain converts GORM model to domain entity
func (m *ActivationTokenModel) ToDomain() *users.ActivationToken {
	return &users.ActivationToken{OneTimeToken: m.toDomain()}
}

// FromDomain converts domain entity to GORM model
func (m *ActivationTokenModel) FromDomain(t *users.ActivationToken) {
	m.fromDomain(&t.OneTimeToken)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
