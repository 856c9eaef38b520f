package utils

import (
	"errors"
	"strings"
	"unicode"
)

const MinPasswordLength = 8

var (
	ErrPasswordTooShort     = errors.New("password must contain at least 8 characters")
	ErrPasswordNumeric      = errors.New("password cannot be entirely numeric")
	ErrPasswordCommon       = errors.New("password is too common")
	ErrPasswordLikeUsername = errors.New("password is too similar to the username")
)

var commonPasswords = map[string]struct{}{
	"password": {}, "password1": {}, "password123": {}, "12345678": {}, "123456789": {},
	"1234567890": {}, "qwertyuiop": {}, "qwerty123": {}, "iloveyou": {}, "sunshine": {},
	"princess": {}, "football": {}, "baseball": {}, "welcome1": {}, "abc12345": {},
	"11111111": {}, "00000000": {}, "letmein1": {}, "trustno1": {}, "azertyuiop": {},
	"motdepasse": {}, "passw0rd": {}, "superman": {}, "dragon123": {}, "admin123": {},
}

// ValidatePassword applies the password strength policy. username may be empty.
func ValidatePassword(password, username string) error {
	if len([]rune(password)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if isAllDigits(password) {
		return ErrPasswordNumeric
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return ErrPasswordCommon
	}
	if u := strings.ToLower(strings.TrimSpace(username)); len(u) >= 3 && strings.Contains(strings.ToLower(password), u) {
		return ErrPasswordLikeUsername
	}
	return nil
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// NormalizeEmail trims and lower-cases an address for storage and lookups.
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
