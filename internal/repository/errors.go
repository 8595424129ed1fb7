package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrConflict indicates a unique constraint rejected the write.
	ErrConflict = errors.New("repository: conflict")
	// ErrUnavailable indicates the storage backend could not be reached.
	ErrUnavailable = errors.New("repository: storage unavailable")

	// ErrUsernameExists and ErrEmailExists narrow ErrConflict to the
	// violated constraint so callers can report which field collided.
	ErrUsernameExists = fmt.Errorf("%w: username already exists", ErrConflict)
	ErrEmailExists    = fmt.Errorf("%w: email already exists", ErrConflict)
)
