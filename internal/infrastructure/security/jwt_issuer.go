package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"

	"github.com/golang-jwt/jwt/v4"
)

// accessClaims is the JWT payload: {user_id, username, exp}
type accessClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// jwtIssuer struct that implements the TokenIssuer interface with HS256
type jwtIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTIssuer creates a TokenIssuer from JWT settings
func NewJWTIssuer(settings *config.JWTSettings) (auth.TokenIssuer, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &jwtIssuer{
		secret: []byte(settings.SecretKey),
		ttl:    time.Duration(settings.ExpirationHours) * time.Hour,
	}, nil
}

// Issue signs a token for the user valid from now for the configured lifetime
func (j *jwtIssuer) Issue(userID, username string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(j.ttl)
	claims := accessClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse verifies the signature and expiry of token.
// Any failure is reported as auth.ErrUnauthorized.
func (j *jwtIssuer) Parse(token string) (*auth.Claims, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return j.secret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, fmt.Errorf("%w: token expired", auth.ErrUnauthorized)
		}
		return nil, fmt.Errorf("%w: %v", auth.ErrUnauthorized, err)
	}
	if !parsed.Valid || claims.UserID == "" || claims.ExpiresAt == nil {
		return nil, auth.ErrUnauthorized
	}

	return &auth.Claims{
		UserID:    claims.UserID,
		Username:  claims.Username,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
