package tempfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// DefaultMaxAttempts bounds name generation per Create call.
	DefaultMaxAttempts = 10

	filePerm = 0o600
	dirPerm  = 0o700
)

// Manager creates temporary files inside one working directory.
// It holds no per-file state and is safe for concurrent use.
type Manager struct {
	dir         string
	maxAttempts int
	name        NameFunc
}

// Option configures a Manager.
type Option func(*Manager)

// WithMaxAttempts sets how many names Create tries before giving up.
func WithMaxAttempts(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithNameFunc replaces the name generator. Intended for tests that need collisions.
func WithNameFunc(fn NameFunc) Option {
	return func(m *Manager) {
		if fn != nil {
			m.name = fn
		}
	}
}

// NewManager prepares dir (creating it with mode 0700 if needed) for temporary files.
func NewManager(dir string, opts ...Option) (*Manager, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidDir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDir, err)
	}

	if err := os.MkdirAll(abs, dirPerm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDir, err)
	}

	m := &Manager{
		dir:         abs,
		maxAttempts: DefaultMaxAttempts,
		name:        DefaultName,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Dir returns the absolute working directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Create makes a new empty file, writes initial into it when non-empty and returns its handle.
// If writing the initial bytes fails the file is removed before returning.
func (m *Manager) Create(initial []byte) (*Handle, error) {
	f, path, err := m.createExclusive()
	if err != nil {
		return nil, err
	}

	h := &Handle{path: path, file: f}
	if len(initial) == 0 {
		return h, nil
	}

	if _, err := h.Write(initial); err != nil {
		_ = h.Remove()
		return nil, err
	}
	if err := h.Sync(); err != nil {
		_ = h.Remove()
		return nil, err
	}
	return h, nil
}

func (m *Manager) createExclusive() (*os.File, string, error) {
	for range m.maxAttempts {
		path := filepath.Join(m.dir, filepath.Base(m.name()))

		f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, filePerm)
		if err == nil {
			return f, path, nil
		}
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		return nil, "", fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}
	return nil, "", fmt.Errorf("%w after %d attempts", ErrNamesExhausted, m.maxAttempts)
}
