package splitting

import (
	"strings"
	"unicode/utf8"
)

const (
	MinNameLength = 2
	MaxNameLength = 20
)

// ValidationError carries a message that can be shown to the user as is
type ValidationError struct {
	Message string
}

// Error returns the message shown to the user
func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateParticipantName checks a display name. Lengths are counted in
// characters after trimming.
func ValidateParticipantName(name string) error {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	switch {
	case n == 0:
		return &ValidationError{Message: "Name cannot be empty"}
	case n < MinNameLength:
		return &ValidationError{Message: "Name must be at least 2 characters"}
	case n > MaxNameLength:
		return &ValidationError{Message: "Name cannot exceed 20 characters"}
	}
	return nil
}
