package validators

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[@$!%*?&]`)
)

// PasswordStrengthErrors lists every strength rule the password violates, in a fixed order.
// An empty result means the password is strong.
func PasswordStrengthErrors(password string) []string {
	var problems []string
	if len(password) < 8 {
		problems = append(problems, "Mật khẩu phải có ít nhất 8 ký tự")
	}
	if !lowerPattern.MatchString(password) {
		problems = append(problems, "Phải có ít nhất 1 chữ cái thường")
	}
	if !upperPattern.MatchString(password) {
		problems = append(problems, "Phải có ít nhất 1 chữ cái hoa")
	}
	if !digitPattern.MatchString(password) {
		problems = append(problems, "Phải có ít nhất 1 số")
	}
	if !specialPattern.MatchString(password) {
		problems = append(problems, "Phải có ít nhất 1 ký tự đặc biệt (@$!%*?&)")
	}
	return problems
}

// StrongPassword backs the `strongpassword` tag.
func StrongPassword(fl validator.FieldLevel) bool {
	return len(PasswordStrengthErrors(fl.Field().String())) == 0
}
