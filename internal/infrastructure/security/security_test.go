//go:build unit
// +build unit

package security

import (
	"testing"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/testutil"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	hasher, err := NewBcryptHasher(bcrypt.MinCost, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	hash, err := hasher.Hash("Secret@123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret@123", hash)

	assert.True(t, hasher.Compare(hash, "Secret@123"))
	assert.False(t, hasher.Compare(hash, "secret@123"))
	assert.False(t, hasher.Compare("not-a-hash", "Secret@123"))
}

func TestBcryptHasher_InvalidCost(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MaxCost+1, testutil.SetupTestLogger(t))
	assert.Error(t, err)
}

func newTestIssuer(t *testing.T, secret string) auth.TokenIssuer {
	t.Helper()
	issuer, err := NewJWTIssuer(&config.JWTSettings{SecretKey: secret, ExpirationHours: 24})
	require.NoError(t, err)
	return issuer
}

func TestJWTIssuer_IssueAndParse(t *testing.T) {
	issuer := newTestIssuer(t, "test-secret-key")
	now := time.Now()

	token, expiresAt, err := issuer.Issue("user-1", "nam", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(24*time.Hour), expiresAt, time.Second)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "nam", claims.Username)
	assert.WithinDuration(t, expiresAt, claims.ExpiresAt, time.Second)
}

func TestJWTIssuer_Rejects(t *testing.T) {
	issuer := newTestIssuer(t, "test-secret-key")

	expired, _, err := issuer.Issue("user-1", "nam", time.Now().Add(-48*time.Hour))
	require.NoError(t, err)

	foreign, _, err := newTestIssuer(t, "another-secret").Issue("user-1", "nam", time.Now())
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "user-1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"expired", expired},
		{"wrong secret", foreign},
		{"none algorithm", none},
		{"garbage", "abc.def.ghi"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Parse(tt.token)
			assert.ErrorIs(t, err, auth.ErrUnauthorized)
		})
	}
}

func TestGenerateToken(t *testing.T) {
	token, err := GenerateToken(users.TokenLength)
	require.NoError(t, err)
	assert.Len(t, token, users.TokenLength)
	assert.Regexp(t, "^[A-Za-z0-9]+$", token)

	other, err := GenerateToken(users.TokenLength)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)

	_, err = GenerateToken(0)
	assert.Error(t, err)
}
