package ingest

import "errors"

var (
	// ErrEmptyPayload is returned when the body contains no bytes.
	ErrEmptyPayload = errors.New("ingest: payload is empty")

	// ErrPayloadTooLarge is returned when an in-memory body exceeds the threshold.
	ErrPayloadTooLarge = errors.New("ingest: payload exceeds in-memory threshold")

	// ErrInsufficientStorage is returned by the free-space preflight. No file is created.
	ErrInsufficientStorage = errors.New("ingest: insufficient storage")

	// ErrSpaceCheckFailed is returned when free space cannot be determined.
	ErrSpaceCheckFailed = errors.New("ingest: failed to query free space")

	// ErrTempFile is returned when the temporary file cannot be created.
	ErrTempFile = errors.New("ingest: failed to create temporary file")

	// ErrIngestionFailed is returned when reading the body or writing the file fails midway.
	ErrIngestionFailed = errors.New("ingest: ingestion failed")

	// ErrMappingFailed is returned when the finished file cannot be mapped and fallback is off.
	ErrMappingFailed = errors.New("ingest: failed to map file")
)
