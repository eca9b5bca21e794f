package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSeedNotFound means the seed word has zero frequency in the scored scope.
	// It matches ErrInvalidInput under errors.Is.
	ErrSeedNotFound = fmt.Errorf("seed word not found in corpus: %w", ErrInvalidInput)
)

// GroupError reports a failure while scoring one group of a partitioned corpus.
type GroupError struct {
	Group string
	Err   error
}

func (e *GroupError) Error() string {
	return fmt.Sprintf("group %q: %v", e.Group, e.Err)
}

func (e *GroupError) Unwrap() error {
	return e.Err
}

// Input wraps a formatted message as an ErrInvalidInput error.
func Input(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Config wraps a formatted message as an ErrInvalidConfig error.
func Config(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
