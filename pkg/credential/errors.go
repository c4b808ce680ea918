package credential

import "errors"

var (
	// ErrEmptyCredentials is returned when the username or password is empty.
	ErrEmptyCredentials = errors.New("credential: username and password must not be empty")

	// ErrKeyGeneration is returned when the digest key cannot be generated.
	ErrKeyGeneration = errors.New("credential: failed to generate digest key")
)
