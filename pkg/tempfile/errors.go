package tempfile

import "errors"

var (
	// ErrInvalidDir is returned when the working directory is empty or unusable.
	ErrInvalidDir = errors.New("tempfile: invalid working directory")

	// ErrNamesExhausted is returned when every attempt to find a free name collided.
	ErrNamesExhausted = errors.New("tempfile: could not generate a unique file name")

	// ErrCreateFailed is returned when the file cannot be created.
	ErrCreateFailed = errors.New("tempfile: failed to create file")

	// ErrWriteFailed is returned when writing to the file fails.
	ErrWriteFailed = errors.New("tempfile: failed to write file")

	// ErrSyncFailed is returned when flushing the file to stable storage fails.
	ErrSyncFailed = errors.New("tempfile: failed to sync file")

	// ErrRemoveFailed is returned when the file cannot be deleted.
	ErrRemoveFailed = errors.New("tempfile: failed to remove file")

	// ErrCloseFailed is returned when closing the descriptor fails. The file may still be removed.
	ErrCloseFailed = errors.New("tempfile: failed to close file")

	// ErrRemoved is returned when a closed or removed handle is used for I/O.
	ErrRemoved = errors.New("tempfile: file closed or removed")
)
