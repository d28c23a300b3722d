// Package validation checks user input before it reaches the services.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

const (
	MinPasswordLength = 6
	// bcrypt ignores anything past 72 bytes
	MaxPasswordLength = 72
	MaxGameNameLength = 100
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if a password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < MinPasswordLength {
		return ValidationError{Field: "password", Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength)}
	}
	if len(password) > MaxPasswordLength {
		return ValidationError{Field: "password", Message: fmt.Sprintf("password must be at most %d bytes", MaxPasswordLength)}
	}
	return nil
}

// ValidateGameName checks the display name of a game
func ValidateGameName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "nombre", Message: "name is required"}
	}
	if utf8.RuneCountInString(name) > MaxGameNameLength {
		return ValidationError{Field: "nombre", Message: fmt.Sprintf("name must be at most %d characters", MaxGameNameLength)}
	}
	return nil
}

// ValidateBoardDimension checks a row or column count against [1, max]
func ValidateBoardDimension(field string, value, max int) error {
	if value < 1 || value > max {
		return ValidationError{Field: field, Message: fmt.Sprintf("must be between 1 and %d", max)}
	}
	return nil
}

// ValidateRole accepts only the known account roles
func ValidateRole(role string) error {
	switch role {
	case "admin", "player":
		return nil
	case "":
		return ValidationError{Field: "role", Message: "role is required"}
	default:
		return ValidationError{Field: "role", Message: "role must be admin or player"}
	}
}
