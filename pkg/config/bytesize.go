package config

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// ByteSize is a byte count that accepts human readable values such as "64KiB", "10 MB" or a
// plain integer.
type ByteSize uint64

// UnmarshalText implements encoding.TextUnmarshaler for both env and YAML decoding.
func (b *ByteSize) UnmarshalText(text []byte) error {
	n, err := humanize.ParseBytes(string(text))
	if err != nil {
		return fmt.Errorf("invalid byte size %q: %w", text, err)
	}
	*b = ByteSize(n)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (b ByteSize) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b ByteSize) String() string {
	return humanize.IBytes(uint64(b))
}

// Int64 returns b as an int64, saturating on overflow.
func (b ByteSize) Int64() int64 {
	if b > 1<<63-1 {
		return 1<<63 - 1
	}
	return int64(b)
}
