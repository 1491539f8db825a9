package model

import (
	"errors"
	"fmt"
)

var (
	// ErrEventNotFound is the lookup miss.
	ErrEventNotFound = errors.New("event not found")

	// ErrInvalidInput covers missing or non-numeric identifiers in request
	// parameters. The handler layer maps it to a blocking 400.
	ErrInvalidInput = errors.New("invalid input")
)

// PersistenceError is a backing-store failure on insert, delete, or schema
// migration. The insert case also covers failing to re-read the created row:
// the caller must not assume partial success.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// IsPersistenceError reports whether err is (or wraps) a PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
