package validators

import (
	"github.com/go-playground/validator/v10"
)

// Chat message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// IsChatRole reports whether role is one of user, assistant or system.
func IsChatRole(role string) bool {
	switch role {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	default:
		return false
	}
}

// ChatRole backs the `chatrole` tag.
func ChatRole(fl validator.FieldLevel) bool {
	return IsChatRole(fl.Field().String())
}
