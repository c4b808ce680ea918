package binder

import "errors"

var (
	// ErrBinderNotApplicable lets a binder decline a request without failing it.
	ErrBinderNotApplicable = errors.New("binder not applicable")
	ErrInvalidQuery        = errors.New("invalid query parameter")
	ErrMissingParam        = errors.New("missing required parameter")
)
