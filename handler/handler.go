package handler

import (
	"errors"
	"net/http"

	"github.com/dmitrymomot/magicer/pkg/binder"
)

// HandlerFunc handles a request whose parameters were bound into req.
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response writes itself to the client.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind populates v from r.
type Bind func(r *http.Request, v any) error

// ErrorHandler renders binding and rendering failures.
type ErrorHandler[C Context] func(ctx C, err error)

// Decorator wraps a HandlerFunc.
type Decorator[C Context, R any] func(HandlerFunc[C, R]) HandlerFunc[C, R]

type WrapOption[C Context, R any] func(*wrapConfig[C, R])

type wrapConfig[C Context, R any] struct {
	binders        []Bind
	errorHandler   ErrorHandler[C]
	contextFactory func(http.ResponseWriter, *http.Request) C
	decorators     []Decorator[C, R]
}

// WithBinders sets request binders, applied in order.
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.binders = append(c.binders, binders...)
	}
}

func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

func WithContextFactory[C Context, R any](f func(http.ResponseWriter, *http.Request) C) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if f != nil {
			c.contextFactory = f
		}
	}
}

// WithDecorators adds decorators; the first one is the outermost.
func WithDecorators[C Context, R any](decorators ...Decorator[C, R]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.decorators = append(c.decorators, decorators...)
	}
}

// defaultErrorHandler renders err as a JSON error envelope.
func defaultErrorHandler[C Context](ctx C, err error) {
	_ = JSONError(err).Render(ctx.ResponseWriter(), ctx.Request())
}

// Wrap converts a typed HandlerFunc to an http.HandlerFunc.
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	cfg := &wrapConfig[C, R]{
		errorHandler: defaultErrorHandler[C],
		contextFactory: func(w http.ResponseWriter, r *http.Request) C {
			if c, ok := NewContext(w, r).(C); ok {
				return c
			}
			panic("handler: default context factory cannot build a custom context type, use WithContextFactory")
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	final := h
	for i := len(cfg.decorators) - 1; i >= 0; i-- {
		final = cfg.decorators[i](final)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := cfg.contextFactory(w, r)

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				if errors.Is(err, binder.ErrBinderNotApplicable) {
					continue
				}
				cfg.errorHandler(ctx, err)
				return
			}
		}

		response := final(ctx, req)
		if response == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := response.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}
