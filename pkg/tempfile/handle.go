package tempfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// Handle owns one temporary file. Methods are safe for concurrent use, but the file has a
// single logical owner which is responsible for calling Remove.
type Handle struct {
	path string

	mu      sync.Mutex
	file    *os.File
	removed bool
}

// Path returns the absolute path of the file.
func (h *Handle) Path() string {
	return h.path
}

// File returns the open descriptor, or nil once the handle is closed or removed.
func (h *Handle) File() *os.File {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.file
}

// Write appends p to the file.
func (h *Handle) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.removed || h.file == nil {
		return 0, ErrRemoved
	}
	n, err := h.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return n, nil
}

// Sync flushes written data to stable storage.
func (h *Handle) Sync() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.removed || h.file == nil {
		return ErrRemoved
	}
	if err := h.file.Sync(); err != nil {
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	return nil
}

// Close releases the descriptor but keeps the file on disk.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closeLocked()
}

// Removed reports whether the file has been deleted through this handle.
func (h *Handle) Removed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.removed
}

// Remove closes the descriptor and deletes the file. After the file is gone further calls are
// no-ops. A file that is already gone counts as removed. A close failure is reported with
// ErrCloseFailed even when the unlink succeeded; Removed is true in that case.
func (h *Handle) Remove() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.removed {
		return nil
	}

	closeErr := h.closeLocked()

	if err := os.Remove(h.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrRemoveFailed, errors.Join(err, closeErr))
	}
	h.removed = true
	if closeErr != nil {
		return fmt.Errorf("%w: %w", ErrCloseFailed, closeErr)
	}
	return nil
}

func (h *Handle) closeLocked() error {
	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	return err
}
