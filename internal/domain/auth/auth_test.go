//go:build unit
// +build unit

package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterInputValidation(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		expectedError bool
	}{
		{
			name:  "valid",
			input: RegisterInput{Username: "teller", Email: "teller@bank.vn", Password: "password1", ConfirmPassword: "password1"},
		},
		{
			name:          "short username",
			input:         RegisterInput{Username: "ab", Email: "teller@bank.vn", Password: "password1", ConfirmPassword: "password1"},
			expectedError: true,
		},
		{
			name:          "bad email",
			input:         RegisterInput{Username: "teller", Email: "teller", Password: "password1", ConfirmPassword: "password1"},
			expectedError: true,
		},
		{
			name:          "short password",
			input:         RegisterInput{Username: "teller", Email: "teller@bank.vn", Password: "pass", ConfirmPassword: "pass"},
			expectedError: true,
		},
		{
			name:          "confirmation mismatch",
			input:         RegisterInput{Username: "teller", Email: "teller@bank.vn", Password: "password1", ConfirmPassword: "password2"},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPasswordInputsValidation(t *testing.T) {
	assert.NoError(t, (&ChangePasswordInput{CurrentPassword: "old", NewPassword: "newpass12", ConfirmPassword: "newpass12"}).Validate())
	assert.Error(t, (&ChangePasswordInput{CurrentPassword: "old", NewPassword: "newpass12", ConfirmPassword: "other"}).Validate())
	assert.Error(t, (&ResetPasswordInput{NewPassword: "newpass12", ConfirmPassword: "newpass12"}).Validate())
	assert.Error(t, (&LoginInput{UsernameOrEmail: "teller"}).Validate())
}
