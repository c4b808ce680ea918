package ingest

import (
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// MapFunc maps the first size bytes of f read-only.
type MapFunc func(f *os.File, size int64) ([]byte, error)

// UnmapFunc releases a mapping returned by a MapFunc.
type UnmapFunc func(b []byte) error

// MapFile implements MapFunc with mmap(2).
func MapFile(f *os.File, size int64) ([]byte, error) {
	if size <= 0 {
		return []byte{}, nil
	}
	if size > math.MaxInt {
		return nil, fmt.Errorf("file of %d bytes cannot be mapped", size)
	}
	return unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
}

// Unmap implements UnmapFunc with munmap(2).
func Unmap(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	return unix.Munmap(b)
}
