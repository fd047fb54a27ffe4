// Package validators holds the custom go-playground/validator tags shared by the domain and API layers.
package validators

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the strongpassword and chatrole tags registered.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("strongpassword", StrongPassword)
	_ = v.RegisterValidation("chatrole", ChatRole)
	return v
}

// FieldErrors flattens validator.ValidationErrors into "Field: X, Tag: Y" lines.
func FieldErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(validationErrors))
	for _, fieldErr := range validationErrors {
		messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Field(), fieldErr.Tag()))
	}
	return messages
}

// Struct validates s and returns an error listing every failed field.
func Struct(s interface{}) error {
	err := New().Struct(s)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return fmt.Errorf("validation failed: %s", strings.Join(FieldErrors(err), "; "))
	}
	return fmt.Errorf("validation error: %w", err)
}
