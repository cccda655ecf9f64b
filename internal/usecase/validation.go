package usecase

import (
	"regexp"
	"unicode/utf16"

	domainErrors "github.com/polkiloo/celestial/internal/domain/errors"
)

// MinPasswordLength is counted in UTF-16 code units.
const MinPasswordLength = 6

// Client-facing validation messages.
const (
	MsgMissingSignupFields = "Please provide all required fields"
	MsgInvalidEmail        = "Please provide a valid email address"
	MsgShortPassword       = "Password must be at least 6 characters long"
	MsgMissingSigninFields = "Please provide email and password"
)

// emailPattern treats Unicode separators, vertical tab and BOM as spaces.
var emailPattern = regexp.MustCompile(`^[^\s\x{000B}\p{Z}\x{FEFF}@]+@[^\s\x{000B}\p{Z}\x{FEFF}@]+\.[^\s\x{000B}\p{Z}\x{FEFF}@]+$`)

// ValidateSignup checks presence and format of signup fields.
func ValidateSignup(name, email, password string) error {
	if name == "" || email == "" || password == "" {
		return domainErrors.NewValidationError(MsgMissingSignupFields)
	}
	if !ValidEmail(email) {
		return domainErrors.NewValidationError(MsgInvalidEmail)
	}
	if passwordLength(password) < MinPasswordLength {
		return domainErrors.NewValidationError(MsgShortPassword)
	}
	return nil
}

// ValidateSignin only checks presence; format was enforced at signup.
func ValidateSignin(email, password string) error {
	if email == "" || password == "" {
		return domainErrors.NewValidationError(MsgMissingSigninFields)
	}
	return nil
}

// ValidEmail reports whether email has the local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func passwordLength(password string) int {
	return len(utf16.Encode([]rune(password)))
}
