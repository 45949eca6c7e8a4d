package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors shared between repositories, services and handlers.
// Handlers match them with errors.Is to pick the response status.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("incorrect password")
)

// ValidationError carries per-field validation messages for a 400 response.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(v))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, v[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a ValidationError if it is one.
func AsValidationError(err error) (ValidationError, bool) {
	var v ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
