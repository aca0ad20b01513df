package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError represents a caller-input validation error. It is always
// raised before any external call is made.
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
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateName checks if a name is valid
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidatePrompt checks the free-text prompt driving lane generation
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return ValidationError{Field: "prompt", Message: "prompt is required"}
	}
	if len(prompt) > 500 {
		return ValidationError{Field: "prompt", Message: "prompt must be at most 500 characters"}
	}
	return nil
}

// ValidatePIN checks a child profile PIN (exactly 4 digits)
func ValidatePIN(pin string) error {
	if pin == "" {
		return ValidationError{Field: "pin", Message: "pin is required"}
	}
	if len(pin) != 4 {
		return ValidationError{Field: "pin", Message: "pin must be exactly 4 digits"}
	}
	for _, r := range pin {
		if !unicode.IsDigit(r) {
			return ValidationError{Field: "pin", Message: "pin must contain only digits"}
		}
	}
	return nil
}
