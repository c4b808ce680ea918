// Package async runs a function in its own goroutine and hands back a Future for its result.
//
// A Future is awaited with Await, with AwaitContext when the caller has a deadline of its own,
// or watched through Done. Giving up on a Future never stops the goroutine: callers that own
// resources the function reads from must wait on Done before releasing them.
//
//	fut := async.Async(ctx, data, func(ctx context.Context, b []byte) (string, error) {
//	    return detect(b)
//	})
//	res, err := fut.AwaitContext(ctx)
//	if errors.Is(err, context.DeadlineExceeded) {
//	    go func() { <-fut.Done(); release(data) }()
//	}
//
// A panic inside the function completes the Future with an error wrapping ErrPanic.
package async
