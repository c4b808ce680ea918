// Package httpserver runs an http.Handler with explicit timeouts and a graceful shutdown tied
// to a context.
//
// Serve and Run block until the context is cancelled, then call http.Server.Shutdown with the
// configured deadline. Signal handling belongs to the caller, typically through
// signal.NotifyContext, so the server can share a lifetime with other workers.
//
//	srv := httpserver.NewFromConfig(cfg.Server, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//	    return err
//	}
//
// Errors are wrapped with ErrStart or ErrShutdown.
package httpserver
