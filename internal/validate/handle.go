// Package validate checks user input before any provider is contacted.
package validate

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidHandle is returned when input fails the handle grammar.
// No provider call is ever attempted for an invalid handle.
var ErrInvalidHandle = errors.New("invalid handle: expected 1-15 letters, digits or underscores")

// handlePattern is the platform's handle grammar.
var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,15}$`)

// Handle is a username that passed the grammar check. Downstream
// components accept this type and do not re-validate.
type Handle string

// String returns the handle without the leading @.
func (h Handle) String() string {
	return string(h)
}

// ParseHandle validates raw user input and returns a Handle.
// A leading @ and surrounding whitespace are tolerated and stripped.
func ParseHandle(raw string) (Handle, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "@")
	if !handlePattern.MatchString(trimmed) {
		return "", ErrInvalidHandle
	}
	return Handle(trimmed), nil
}
