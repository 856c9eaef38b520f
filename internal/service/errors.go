package service

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("authentication credentials are invalid or expired")
	ErrForbidden          = errors.New("you do not have permission to perform this action")

	ErrUserNotFound    = errors.New("user not found")
	ErrCarNotFound     = errors.New("car not found")
	ErrMessageNotFound = errors.New("message not found")

	ErrAlreadyFavorite   = errors.New("this car is already in your favorites")
	ErrNotFavorite       = errors.New("this car is not in your favorites")
	ErrCannotDeleteAdmin = errors.New("administrator accounts cannot be deleted")
)

// ValidationError carries per-field messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// blankFields reports every named value that is empty once trimmed, or nil when
// none is. Binding checks length before trimming, so " " gets this far.
func blankFields(values map[string]string) *ValidationError {
	verr := &ValidationError{Fields: map[string]string{}}
	for field, v := range values {
		if strings.TrimSpace(v) == "" {
			verr.Fields[field] = "this field may not be blank"
		}
	}
	if len(verr.Fields) == 0 {
		return nil
	}
	return verr
}

// presentText keeps the fields a partial update actually sent.
func presentText(values map[string]*string) map[string]string {
	out := make(map[string]string, len(values))
	for field, v := range values {
		if v != nil {
			out[field] = *v
		}
	}
	return out
}
