package domain

import (
	"fmt"
	"unicode"
)

const (
	minPasswordLength = 8
	maxPasswordLength = 128
)

// ValidatePassword enforces the baseline password policy for registration.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return NewError(KindInvalidInput, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		return NewError(KindInvalidInput, fmt.Sprintf("password must be at most %d characters", maxPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return NewError(KindInvalidInput, "password must include upper case, lower case and a digit")
	}
	return nil
}
