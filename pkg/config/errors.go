package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the struct.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrReadingFile is returned when the config file cannot be read or decoded.
	ErrReadingFile = errors.New("failed to read config file")

	// ErrInvalidConfig is returned by Validate.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNilPointer is returned when a nil pointer is provided to a loader.
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)
