//go:build integration
// +build integration

package app

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/auth"
	"github.com/CaoThanhNammm/chatbot-bank/internal/domain/users"
	"github.com/CaoThanhNammm/chatbot-bank/internal/infrastructure/persistence"
	"github.com/CaoThanhNammm/chatbot-bank/internal/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerInput(username string) *auth.RegisterInput {
	return &auth.RegisterInput{
		Username:        username,
		Email:           username + "@bank.vn",
		Password:        TestStrongPassword,
		ConfirmPassword: TestStrongPassword,
		FirstName:       "Nam",
	}
}

func TestAuthService_Register_And_Login_Success(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	user, err := services.AuthService.Register(ctx, registerInput("nguyenvana"))
	require.NoError(t, err)
	assert.True(t, user.IsActive())

	sent := services.Mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "nguyenvana@bank.vn", sent[0].To)
	assert.Contains(t, sent[0].HTML, TestFrontendURL+"/login")

	result, err := services.AuthService.Login(ctx, &auth.LoginInput{UsernameOrEmail: "NguyenVanA@bank.vn", Password: TestStrongPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))

	stored, err := services.DBContext.UserRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastLogin)

	authenticated, err := services.AuthService.Authenticate(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authenticated.ID)
}

func TestAuthService_Register_Conflicts(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	_, err := services.AuthService.Register(ctx, registerInput("tranthib"))
	require.NoError(t, err)

	_, err = services.AuthService.Register(ctx, registerInput("tranthib"))
	assert.ErrorIs(t, err, users.ErrUsernameTaken)

	input := registerInput("tranthic")
	input.Email = "tranthib@bank.vn"
	_, err = services.AuthService.Register(ctx, input)
	assert.ErrorIs(t, err, users.ErrEmailTaken)

	input = registerInput("levand")
	input.ConfirmPassword = "different"
	_, err = services.AuthService.Register(ctx, input)
	var validationErr *users.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestAuthService_Login_Rejections(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	user, err := services.AuthService.Register(ctx, registerInput("phamvane"))
	require.NoError(t, err)

	_, err = services.AuthService.Login(ctx, &auth.LoginInput{UsernameOrEmail: "phamvane", Password: "wrong-password"})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = services.AuthService.Login(ctx, &auth.LoginInput{UsernameOrEmail: "nobody", Password: TestStrongPassword})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = services.AdminService.Deactivate(ctx, user.ID)
	require.NoError(t, err)
	_, err = services.AuthService.Login(ctx, &auth.LoginInput{UsernameOrEmail: "phamvane", Password: TestStrongPassword})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestAuthService_ChangePassword(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	user, err := services.AuthService.Register(ctx, registerInput("hoangvanf"))
	require.NoError(t, err)

	newPassword := "N3w!Passw0rd"
	tests := []struct {
		name        string
		input       *auth.ChangePasswordInput
		expectedErr error
	}{
		{"same password", &auth.ChangePasswordInput{CurrentPassword: TestStrongPassword, NewPassword: TestStrongPassword, ConfirmPassword: TestStrongPassword}, auth.ErrSamePassword},
		{"wrong current", &auth.ChangePasswordInput{CurrentPassword: "Wr0ng!Passw0rd", NewPassword: newPassword, ConfirmPassword: newPassword}, auth.ErrIncorrectPassword},
		{"success", &auth.ChangePasswordInput{CurrentPassword: TestStrongPassword, NewPassword: newPassword, ConfirmPassword: newPassword}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := services.AuthService.ChangePassword(ctx, user.ID, tt.input)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	_, err = services.AuthService.Login(ctx, &auth.LoginInput{UsernameOrEmail: "hoangvanf", Password: newPassword})
	assert.NoError(t, err)
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	_, err := services.AuthService.Register(ctx, registerInput("dovang"))
	require.NoError(t, err)

	require.NoError(t, services.AuthService.ForgotPassword(ctx, "unknown@bank.vn"))
	require.Len(t, services.Mailer.Sent(), 1)

	require.NoError(t, services.AuthService.ForgotPassword(ctx, "dovang@bank.vn"))
	sent := services.Mailer.Sent()
	require.Len(t, sent, 2)

	html := sent[1].HTML
	idx := strings.Index(html, "token=")
	require.Greater(t, idx, 0)
	token := html[idx+len("token=") : idx+len("token=")+users.TokenLength]

	newPassword := "R3set!Passw0rd"
	err = services.AuthService.ResetPassword(ctx, &auth.ResetPasswordInput{Token: token, NewPassword: newPassword, ConfirmPassword: newPassword})
	require.NoError(t, err)

	err = services.AuthService.ResetPassword(ctx, &auth.ResetPasswordInput{Token: token, NewPassword: newPassword, ConfirmPassword: newPassword})
	assert.ErrorIs(t, err, users.ErrTokenNotFound)

	_, err = services.AuthService.Login(ctx, &auth.LoginInput{UsernameOrEmail: "dovang", Password: newPassword})
	assert.NoError(t, err)
}

func TestAuthService_ResetPassword_Expired(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	user := persistence.CreateTestUser(t)
	require.NoError(t, services.DBContext.UserRepo.Create(ctx, user))
	expired := persistence.CreateTestToken(t, user.ID, -time.Minute)
	require.NoError(t, services.DBContext.ResetTokenRepo.Create(ctx, &users.PasswordResetToken{OneTimeToken: expired}))

	err := services.AuthService.ResetPassword(ctx, &auth.ResetPasswordInput{Token: expired.Token, NewPassword: TestStrongPassword, ConfirmPassword: TestStrongPassword})
	assert.ErrorIs(t, err, auth.ErrTokenExpired)

	_, err = services.DBContext.ResetTokenRepo.GetByToken(ctx, expired.Token)
	assert.ErrorIs(t, err, users.ErrTokenNotFound)
}

// lastActivationToken extracts the token of the most recent activation email
func lastActivationToken(t *testing.T, services *TestServices) string {
	t.Helper()

	sent := services.Mailer.Sent()
	require.NotEmpty(t, sent)
	html := sent[len(sent)-1].HTML
	idx := strings.Index(html, "activate?token=")
	require.Greater(t, idx, 0)
	return html[idx+len("activate?token=") : idx+len("activate?token=")+users.TokenLength]
}

func TestAuthService_Activation(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	user := persistence.CreateTestUser(t)
	user.Status = users.StatusPending
	require.NoError(t, services.DBContext.UserRepo.Create(ctx, user))

	require.NoError(t, services.AuthService.ResendActivation(ctx, user.Email))
	require.Len(t, services.Mailer.Sent(), 1)
	token := lastActivationToken(t, services)

	activated, err := services.AuthService.ActivateAccount(ctx, token)
	require.NoError(t, err)
	assert.True(t, activated.IsActive())

	err = services.AuthService.ResendActivation(ctx, user.Email)
	assert.ErrorIs(t, err, auth.ErrAlreadyActive)
}

func TestAuthService_Authenticate_Invalid(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	_, err := services.AuthService.Authenticate(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrUnauthorized)

	token, _, err := services.Issuer.Issue("f47ac10b-58cc-4372-a567-0e02b2c3d479", "ghost", time.Now())
	require.NoError(t, err)
	_, err = services.AuthService.Authenticate(ctx, token)
	assert.ErrorIs(t, err, auth.ErrUnauthorized)
}

func TestAuthService_Activation_RefusedAfterAdminDisable(t *testing.T) {
	tests := []struct {
		name    string
		disable func(ctx context.Context, services *TestServices, userID string) error
	}{
		{"deleted", func(ctx context.Context, services *TestServices, userID string) error {
			return services.AdminService.Delete(ctx, userID)
		}},
		{"deactivated", func(ctx context.Context, services *TestServices, userID string) error {
			_, err := services.AdminService.Deactivate(ctx, userID)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services := SetupTestServices(t, config.SqliteDbType)
			ctx := context.Background()

			user, err := services.AuthService.Register(ctx, registerInput("thu.tran"))
			require.NoError(t, err)
			require.NoError(t, tt.disable(ctx, services, user.ID))

			err = services.AuthService.ResendActivation(ctx, user.Email)
			assert.ErrorIs(t, err, auth.ErrAccountDisabled)

			_, err = services.AuthService.Login(ctx, &auth.LoginInput{UsernameOrEmail: user.Username, Password: TestStrongPassword})
			assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
		})
	}
}

func TestAuthService_ActivateAccount_TokenIssuedBeforeDisable(t *testing.T) {
	services := SetupTestServices(t, config.SqliteDbType)
	ctx := context.Background()

	user := persistence.CreateTestUser(t)
	user.Status = users.StatusPending
	require.NoError(t, services.DBContext.UserRepo.Create(ctx, user))
	require.NoError(t, services.AuthService.ResendActivation(ctx, user.Email))
	token := lastActivationToken(t, services)

	require.NoError(t, services.AdminService.Delete(ctx, user.ID))

	_, err := services.AuthService.ActivateAccount(ctx, token)
	assert.ErrorIs(t, err, auth.ErrAccountDisabled)

	stored, err := services.DBContext.UserRepo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsActive())

	_, err = services.AuthService.ActivateAccount(ctx, token)
	assert.ErrorIs(t, err, users.ErrTokenNotFound)
}
