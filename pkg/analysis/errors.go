package analysis

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrymomot/magicer/pkg/classifier"
	"github.com/dmitrymomot/magicer/pkg/ingest"
	"github.com/dmitrymomot/magicer/pkg/sandbox"
	"github.com/dmitrymomot/magicer/pkg/tempfile"
)

// Kind classifies a failure for callers that must choose a response.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindForbidden
	KindInsufficientStorage
	KindPayloadTooLarge
	KindAnalysisFailed
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindInsufficientStorage:
		return "insufficient_storage"
	case KindPayloadTooLarge:
		return "payload_too_large"
	case KindAnalysisFailed:
		return "analysis_failed"
	case KindTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// Error is the failure type of every Service method.
type Error struct {
	Kind Kind
	Op   string
	// Detail is a short client-safe explanation. It may be empty.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("analysis: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("analysis: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func newError(op string, kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail, Err: err}
}

func ingestError(op string, err error) *Error {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes), errors.Is(err, ingest.ErrPayloadTooLarge):
		return newError(op, KindPayloadTooLarge, "request body is too large", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, os.ErrDeadlineExceeded):
		return newError(op, KindTimeout, "timed out reading request body", err)
	case errors.Is(err, ingest.ErrEmptyPayload):
		return newError(op, KindInvalidInput, "content cannot be empty", err)
	case errors.Is(err, ingest.ErrInsufficientStorage):
		return newError(op, KindInsufficientStorage, "insufficient storage space for analysis", err)
	case errors.Is(err, tempfile.ErrWriteFailed), errors.Is(err, tempfile.ErrSyncFailed):
		return newError(op, KindInternal, "", err)
	case errors.Is(err, ingest.ErrIngestionFailed):
		return newError(op, KindInvalidInput, "failed to read request body", err)
	default:
		return newError(op, KindInternal, "", err)
	}
}

func sandboxError(op string, err error) *Error {
	switch {
	case errors.Is(err, sandbox.ErrInvalidToken):
		detail := "invalid path"
		if reason, ok := sandbox.RejectionReason(err); ok {
			detail = "invalid path: " + string(reason)
		}
		return newError(op, KindInvalidInput, detail, err)
	case errors.Is(err, sandbox.ErrNotFound):
		return newError(op, KindNotFound, "file not found", err)
	case errors.Is(err, sandbox.ErrOutsideSandbox), errors.Is(err, sandbox.ErrAccessDenied):
		return newError(op, KindForbidden, "access denied", err)
	default:
		return newError(op, KindInternal, "", err)
	}
}

func classifyError(op string, err error) *Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return newError(op, KindTimeout, "analysis timed out", err)
	case errors.Is(err, context.Canceled):
		return newError(op, KindInternal, "", err)
	case errors.Is(err, classifier.ErrNotFound):
		return newError(op, KindNotFound, "file not found", err)
	case errors.Is(err, classifier.ErrAccessDenied):
		return newError(op, KindForbidden, "access denied", err)
	case errors.Is(err, classifier.ErrUnsupported):
		return newError(op, KindInvalidInput, "not a regular file", err)
	default:
		return newError(op, KindAnalysisFailed, "analysis failed", err)
	}
}
