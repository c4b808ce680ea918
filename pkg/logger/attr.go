package logger

import (
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
)

// Group creates a slog group attribute from the provided attributes.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under the key "error". A nil err yields an empty Attr, which slog drops.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RequestID records the request identifier under the key "request_id".
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// ClientIP records the peer address under the key "client_ip".
func ClientIP(ip string) slog.Attr {
	if ip == "" {
		return slog.Attr{}
	}
	return slog.String("client_ip", ip)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Op records the operation name under the key "op".
func Op(name string) slog.Attr {
	return slog.String("op", name)
}

// Path records a filesystem path under the key "path".
func Path(p string) slog.Attr {
	return slog.String("path", p)
}

// Filename records a client supplied file name under the key "filename".
func Filename(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("filename", name)
}

// Size records a byte count as a group holding the raw value and a humanized one.
func Size(n int64) slog.Attr {
	return Group("size",
		slog.Int64("bytes", n),
		slog.String("human", humanize.IBytes(uint64(max(n, 0)))),
	)
}

// Strategy records the ingestion strategy under the key "strategy".
func Strategy(s string) slog.Attr {
	return slog.String("strategy", s)
}

// MIMEType records a detected MIME type under the key "mime_type".
func MIMEType(m string) slog.Attr {
	return slog.String("mime_type", m)
}

// Reason records a machine readable rejection reason under the key "reason".
func Reason(r string) slog.Attr {
	return slog.String("reason", r)
}

// Duration records d under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Count records n under the given key.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}
