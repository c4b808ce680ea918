package handler

import "net/http"

// HTTPError is an error that is safe to show to clients.
type HTTPError struct {
	Code    int    // HTTP status code
	Key     string // machine readable code, e.g. "not_found"
	Message string // optional; defaults to the status text
}

func (e HTTPError) Error() string {
	return e.Key
}

// WithMessage returns a copy of e carrying msg.
func (e HTTPError) WithMessage(msg string) HTTPError {
	e.Message = msg
	return e
}

// Text returns the message shown to clients.
func (e HTTPError) Text() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Code)
}

var (
	ErrBadRequest            = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrUnauthorized          = HTTPError{Code: http.StatusUnauthorized, Key: "unauthorized"}
	ErrForbidden             = HTTPError{Code: http.StatusForbidden, Key: "forbidden"}
	ErrNotFound              = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrMethodNotAllowed      = HTTPError{Code: http.StatusMethodNotAllowed, Key: "method_not_allowed"}
	ErrRequestEntityTooLarge = HTTPError{Code: http.StatusRequestEntityTooLarge, Key: "payload_too_large"}
	ErrUnprocessableEntity   = HTTPError{Code: http.StatusUnprocessableEntity, Key: "analysis_failed"}
)

var (
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Key: "internal_error"}
	ErrGatewayTimeout      = HTTPError{Code: http.StatusGatewayTimeout, Key: "timeout"}
	ErrInsufficientStorage = HTTPError{Code: http.StatusInsufficientStorage, Key: "insufficient_storage"}
)
