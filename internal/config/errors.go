package config

import (
	"errors"
	"fmt"

	"github.com/conn-castle/rancher-client/internal/messages"
)

// ErrConfigValidation is a sentinel that every configuration failure matches
// (missing or invalid fields and unreadable or malformed config files).
// Callers can use errors.Is(err, ErrConfigValidation) to tell configuration
// problems apart from failures of the upgrade itself.
var ErrConfigValidation = errors.New("config validation failed")

// MissingFieldError names a required setting that no layer supplied.
// Field is the flag name.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf(messages.ConfigMissingRequiredFmt, e.Field)
}

// Is matches ErrConfigValidation.
func (e *MissingFieldError) Is(target error) bool {
	return target == ErrConfigValidation
}

// InvalidFieldError reports a setting whose value is out of range.
type InvalidFieldError struct {
	Field  string
	Reason string
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf(messages.ConfigInvalidFieldFmt, e.Field, e.Reason)
}

// Is matches ErrConfigValidation.
func (e *InvalidFieldError) Is(target error) bool {
	return target == ErrConfigValidation
}

// FileError reports a config or env file that could not be used.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return e.Err.Error()
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Is matches ErrConfigValidation.
func (e *FileError) Is(target error) bool {
	return target == ErrConfigValidation
}
