package classifier

import "errors"

var (
	// ErrNotFound is returned by ClassifyPath when the file does not exist.
	ErrNotFound = errors.New("classifier: file not found")

	// ErrAccessDenied is returned by ClassifyPath when the file cannot be opened for reading.
	ErrAccessDenied = errors.New("classifier: access denied")

	// ErrUnsupported is returned for inputs that are not regular files.
	ErrUnsupported = errors.New("classifier: unsupported input")

	// ErrReadFailed is returned when the content cannot be read.
	ErrReadFailed = errors.New("classifier: read failed")
)
