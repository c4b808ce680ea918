package magic

import (
	"errors"

	"github.com/dmitrymomot/magicer/handler"
	"github.com/dmitrymomot/magicer/pkg/analysis"
)

// httpError maps a service failure to the error shown to the client. Only the
// analysis.Error detail is exposed; the wrapped cause stays in the logs.
func httpError(err error) handler.HTTPError {
	var e *analysis.Error
	if !errors.As(err, &e) {
		return handler.ErrInternalServerError
	}

	var base handler.HTTPError
	switch e.Kind {
	case analysis.KindInvalidInput:
		base = handler.ErrBadRequest
	case analysis.KindNotFound:
		base = handler.ErrNotFound
	case analysis.KindForbidden:
		base = handler.ErrForbidden
	case analysis.KindInsufficientStorage:
		base = handler.ErrInsufficientStorage
	case analysis.KindPayloadTooLarge:
		base = handler.ErrRequestEntityTooLarge
	case analysis.KindAnalysisFailed:
		base = handler.ErrUnprocessableEntity
	case analysis.KindTimeout:
		base = handler.ErrGatewayTimeout
	case analysis.KindInternal:
		fallthrough
	default:
		return handler.ErrInternalServerError
	}

	if e.Detail != "" {
		return base.WithMessage(e.Detail)
	}
	return base
}
