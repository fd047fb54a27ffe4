package security

import (
	"fmt"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

// bcryptHasher struct that implements the PasswordHasher interface
type bcryptHasher struct {
	cost   int
	logger logger.Logger
}

// NewBcryptHasher creates a PasswordHasher. A cost of 0 selects bcrypt.DefaultCost.
func NewBcryptHasher(cost int, logger logger.Logger) (auth.PasswordHasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &bcryptHasher{
		cost:   cost,
		logger: logger,
	}, nil
}

// Hash returns the bcrypt hash of password
func (h *bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Compare reports whether password matches hash
func (h *bcryptHasher) Compare(hash, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil && err != bcrypt.ErrMismatchedHashAndPassword {
		h.logger.Warn("Password hash comparison failed: ", err)
	}
	return err == nil
}
