package sandbox

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidToken is matched by every *RejectionError.
	ErrInvalidToken = errors.New("sandbox: invalid relative path")

	// ErrNotFound is returned when the joined target does not exist.
	ErrNotFound = errors.New("sandbox: target not found")

	// ErrOutsideSandbox is returned when the canonical target lies outside the root.
	ErrOutsideSandbox = errors.New("sandbox: path escapes sandbox root")

	// ErrAccessDenied is returned when the process may not inspect the target.
	ErrAccessDenied = errors.New("sandbox: access denied")

	// ErrInvalidRoot is returned when the sandbox root is missing, not a directory or unreadable.
	ErrInvalidRoot = errors.New("sandbox: invalid root directory")

	// ErrResolveFailed is returned for filesystem failures with no clearer classification.
	ErrResolveFailed = errors.New("sandbox: failed to resolve path")
)

// Reason classifies why a relative path token was rejected.
type Reason string

const (
	ReasonEmpty           Reason = "empty"
	ReasonBadEncoding     Reason = "bad_encoding"
	ReasonAbsolute        Reason = "absolute"
	ReasonParentTraversal Reason = "parent_traversal"
	ReasonDoubleSeparator Reason = "double_separator"
	ReasonDotSegment      Reason = "dot_segment"
	ReasonLeadingSpace    Reason = "leading_space"
)

// IsTraversal reports whether the reason indicates an attempt to leave the sandbox.
func (r Reason) IsTraversal() bool {
	return r == ReasonAbsolute || r == ReasonParentTraversal
}

// RejectionError describes a token that failed validation.
type RejectionError struct {
	Reason Reason
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidToken.Error(), e.Reason)
}

// Is lets errors.Is(err, ErrInvalidToken) match any rejection.
func (e *RejectionError) Is(target error) bool {
	return target == ErrInvalidToken
}

func reject(r Reason) error {
	return &RejectionError{Reason: r}
}

// RejectionReason extracts the reason from err, if it is a token rejection.
func RejectionReason(err error) (Reason, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}
