package recordstore

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is wrapped by every *ValidationError.
	ErrValidation = errors.New("invalid payment record")

	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("payment record not found")

	// ErrPersistenceDegraded is a warning: the in-memory change was applied
	// but could not be written durably. Data may not survive a restart.
	ErrPersistenceDegraded = errors.New("payment history could not be saved")

	// ErrCorruptState is returned by Load when persisted data could not be parsed.
	// The store falls back to an empty ledger.
	ErrCorruptState = errors.New("persisted payment history is corrupt")
)

// ValidationError describes why a record was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// IsDegraded reports whether err only signals degraded persistence, meaning the
// operation itself succeeded in memory.
func IsDegraded(err error) bool {
	return errors.Is(err, ErrPersistenceDegraded)
}
