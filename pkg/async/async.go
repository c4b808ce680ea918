package async

import (
	"context"
	"fmt"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	done   chan struct{}
}

// Await blocks until the function returns.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext blocks until the function returns or ctx is done, whichever comes first.
// In the latter case it returns ctx.Err() and the function keeps running.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// Done returns a channel closed once the function has returned.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether the function has returned, without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Async starts fn(ctx, param) in a new goroutine. If ctx is already done fn is not called and the
// Future completes with ctx.Err().
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				var zero U
				f.result = zero
				f.err = fmt.Errorf("%w: %v", ErrPanic, r)
			}
		}()

		if err := ctx.Err(); err != nil {
			f.err = err
			return
		}

		f.result, f.err = fn(ctx, param)
	}()

	return f
}
