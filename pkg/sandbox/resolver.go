package sandbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

// Resolver maps relative tokens to canonical paths inside one root.
// The root is fixed at construction, so a Resolver is safe for concurrent use.
type Resolver struct {
	root string
}

// NewResolver canonicalizes root and checks that it is a readable directory.
func NewResolver(root string) (*Resolver, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidRoot)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, canonical)
	}

	if err := unix.Access(canonical, unix.R_OK|unix.X_OK); err != nil {
		return nil, fmt.Errorf("%w: %s is not readable: %v", ErrInvalidRoot, canonical, err)
	}

	return &Resolver{root: canonical}, nil
}

// Root returns the canonical sandbox root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve validates raw and returns the canonical absolute path it names.
func (r *Resolver) Resolve(raw string) (string, error) {
	tok, err := ParseToken(raw)
	if err != nil {
		return "", err
	}
	return r.ResolveToken(tok)
}

// ResolveToken returns the canonical absolute path for an already validated token.
func (r *Resolver) ResolveToken(tok Token) (string, error) {
	if tok.IsZero() {
		return "", reject(ReasonEmpty)
	}

	joined := filepath.Join(r.root, filepath.FromSlash(tok.String()))

	if _, err := os.Lstat(joined); err != nil {
		return "", classifyFSError(err)
	}

	canonical, err := filepath.EvalSymlinks(joined)
	if err != nil {
		// A dangling symlink passes Lstat but not EvalSymlinks.
		return "", classifyFSError(err)
	}

	if !r.contains(canonical) {
		return "", fmt.Errorf("%w: %s", ErrOutsideSandbox, tok)
	}

	return canonical, nil
}

// contains compares whole path components, so "/data-other" is not inside "/data".
func (r *Resolver) contains(path string) bool {
	if path == r.root {
		return true
	}
	prefix := r.root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

func classifyFSError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, unix.ENOTDIR):
		// A path component is a regular file, so nothing exists below it.
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrAccessDenied
	default:
		return fmt.Errorf("%w: %v", ErrResolveFailed, err)
	}
}
