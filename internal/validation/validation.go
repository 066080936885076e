package validation

import (
	"fmt"
	"regexp"
)

// emailPattern is a pragmatic check, not a full RFC 5322 parser.
var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	// MinPasswordLen is the minimum accepted password length.
	MinPasswordLen = 8
	// MaxFullNameLen caps the stored full name.
	MaxFullNameLen = 128
)

// ValidateEmail checks that email is present and plausibly formed.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("email is not valid")
	}
	return nil
}

// ValidateFullName checks that the full name is present and within bounds.
func ValidateFullName(fullName string) error {
	if fullName == "" {
		return fmt.Errorf("fullName is required")
	}
	if len(fullName) > MaxFullNameLen {
		return fmt.Errorf("fullName must not exceed %d characters", MaxFullNameLen)
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
// Rejecting empty passwords here keeps them out of the hasher entirely.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}
	return nil
}
