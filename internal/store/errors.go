package store

import (
	"errors"
	"fmt"

	"viewpulse/internal/faults"
	"viewpulse/internal/report"
)

var (
	// ErrCorrupt marks a stored payload that could not be decoded.
	ErrCorrupt = errors.New("stored data is corrupt")
	// ErrLockTimeout is returned when a category lock could not be acquired.
	ErrLockTimeout = errors.New("category lock timeout")
)

// StorageError wraps a failed store operation with the key it addressed.
type StorageError struct {
	Op       string
	Artifact string
	Key      report.Key
	Err      error
}

func (e *StorageError) Error() string {
	target := e.Artifact
	if e.Key.Category != "" {
		target += " " + e.Key.Category.String()
		if !e.Key.Date.IsZero() {
			target += "@" + e.Key.Date.String()
		}
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, target, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Is lets callers classify any StorageError as faults.ErrStorage, and lock
// timeouts additionally as faults.ErrLocked.
func (e *StorageError) Is(target error) bool {
	switch target {
	case faults.ErrStorage:
		return true
	case faults.ErrLocked:
		return errors.Is(e.Err, ErrLockTimeout)
	}
	return false
}

// Fail builds a StorageError.
func Fail(op, artifact string, key report.Key, err error) error {
	return &StorageError{Op: op, Artifact: artifact, Key: key, Err: err}
}

// Corrupt builds a StorageError for a payload that failed to decode.
func Corrupt(artifact string, key report.Key, err error) error {
	return &StorageError{Op: "read", Artifact: artifact, Key: key, Err: fmt.Errorf("%w: %w", ErrCorrupt, err)}
}
