package httpserver

import (
	"log/slog"
	"time"
)

type Option func(*config)

func WithAddr(addr string) Option {
	if addr == "" {
		panic("WithAddr: addr cannot be empty")
	}
	return func(c *config) { c.addr = addr }
}

func WithReadTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithReadTimeout: duration must be > 0")
	}
	return func(c *config) { c.readTimeout = d }
}

func WithReadHeaderTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithReadHeaderTimeout: duration must be > 0")
	}
	return func(c *config) { c.readHeaderTimeout = d }
}

func WithWriteTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithWriteTimeout: duration must be > 0")
	}
	return func(c *config) { c.writeTimeout = d }
}

func WithIdleTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithIdleTimeout: duration must be > 0")
	}
	return func(c *config) { c.idleTimeout = d }
}

func WithShutdownTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("WithShutdownTimeout: duration must be > 0")
	}
	return func(c *config) { c.shutdownTimeout = d }
}

// WithMaxHeaderBytes caps the size of request headers, including the request line.
func WithMaxHeaderBytes(n int) Option {
	if n <= 0 {
		panic("WithMaxHeaderBytes: size must be > 0")
	}
	return func(c *config) { c.maxHeaderBytes = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}
