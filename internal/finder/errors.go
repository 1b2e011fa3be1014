package finder

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrConfiguration matches every ConfigurationError via errors.Is.
	ErrConfiguration = errors.New("finder: invalid configuration")
	// ErrDeleteConflict matches every DeleteConflictError via errors.Is.
	ErrDeleteConflict = errors.New("finder: delete conflict")
)

// ConfigurationError reports contradictory or invalid search options.
// It is always returned before the filesystem is touched.
type ConfigurationError struct {
	Field   string // Option that caused the error
	Message string // Human-readable explanation
}

// Error implements the error interface for ConfigurationError.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configError(field, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DeleteConflictError is returned by the singular delete helpers when more
// than one target matches. Nothing is deleted.
type DeleteConflictError struct {
	Kind    string   // "file" or "dir"
	Matches []string // Every matched target
}

// Error implements the error interface for DeleteConflictError.
func (e *DeleteConflictError) Error() string {
	return fmt.Sprintf("refusing to remove %s: %d targets matched (%s)",
		e.Kind, len(e.Matches), strings.Join(e.Matches, ", "))
}

// Is reports whether target is ErrDeleteConflict.
func (e *DeleteConflictError) Is(target error) bool {
	return target == ErrDeleteConflict
}
