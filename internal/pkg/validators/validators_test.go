//go:build unit
// +build unit

package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordStrengthErrors(t *testing.T) {
	tests := []struct {
		name     string
		password string
		expected int
	}{
		{"strong", "Secret@123", 0},
		{"too short", "Aa1@", 1},
		{"no upper", "secret@123", 1},
		{"no lower", "SECRET@123", 1},
		{"no digit", "Secret@abc", 1},
		{"no special", "Secret1234", 1},
		{"everything missing", "", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, PasswordStrengthErrors(tt.password), tt.expected)
		})
	}
}

func TestStructTags(t *testing.T) {
	type payload struct {
		Password string `validate:"strongpassword"`
		Role     string `validate:"chatrole"`
	}

	require.NoError(t, Struct(&payload{Password: "Secret@123", Role: RoleAssistant}))

	err := Struct(&payload{Password: "weak", Role: "robot"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Field: Password, Tag: strongpassword")
	assert.Contains(t, err.Error(), "Field: Role, Tag: chatrole")
}

func TestIsChatRole(t *testing.T) {
	for _, role := range []string{RoleUser, RoleAssistant, RoleSystem} {
		assert.True(t, IsChatRole(role), role)
	}
	assert.False(t, IsChatRole("tool"))
	assert.False(t, IsChatRole(""))
}
