package security

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
)

const tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GenerateToken returns a random alphanumeric string of length n
func GenerateToken(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", n)
	}

	max := big.NewInt(int64(len(tokenAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate token: %w", err)
		}
		buf[i] = tokenAlphabet[idx.Int64()]
	}
	return string(buf), nil
}

type alphanumGenerator struct{}

// NewSecretGenerator returns a SecretGenerator backed by GenerateToken
func NewSecretGenerator() auth.SecretGenerator {
	return alphanumGenerator{}
}

func (alphanumGenerator) Generate(length int) (string, error) {
	return GenerateToken(length)
}
