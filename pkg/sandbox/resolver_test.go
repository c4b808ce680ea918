package sandbox_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/magicer/pkg/sandbox"
)

// newSandbox creates <tmp>/data as the root and <tmp>/outside as a sibling.
func newSandbox(t *testing.T) (root, outside string, r *sandbox.Resolver) {
	t.Helper()

	base, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	root = filepath.Join(base, "data")
	outside = filepath.Join(base, "outside")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "reports"), 0o755))
	require.NoError(t, os.MkdirAll(outside, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "reports", "q1.pdf"), []byte("%PDF-1.4"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("secret"), 0o644))

	r, err = sandbox.NewResolver(root)
	require.NoError(t, err)
	return root, outside, r
}

func TestNewResolver(t *testing.T) {
	t.Parallel()

	t.Run("empty root", func(t *testing.T) {
		t.Parallel()
		_, err := sandbox.NewResolver("")
		assert.ErrorIs(t, err, sandbox.ErrInvalidRoot)
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()
		_, err := sandbox.NewResolver(filepath.Join(t.TempDir(), "missing"))
		assert.ErrorIs(t, err, sandbox.ErrInvalidRoot)
	})

	t.Run("root is a file", func(t *testing.T) {
		t.Parallel()
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
		_, err := sandbox.NewResolver(file)
		assert.ErrorIs(t, err, sandbox.ErrInvalidRoot)
	})

	t.Run("root through symlink is canonicalized", func(t *testing.T) {
		t.Parallel()
		base, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)
		real := filepath.Join(base, "real")
		require.NoError(t, os.Mkdir(real, 0o755))
		link := filepath.Join(base, "link")
		require.NoError(t, os.Symlink(real, link))

		r, err := sandbox.NewResolver(link)
		require.NoError(t, err)
		assert.Equal(t, real, r.Root())
	})
}

func TestResolver_Resolve(t *testing.T) {
	t.Parallel()

	root, outside, r := newSandbox(t)

	t.Run("existing file", func(t *testing.T) {
		t.Parallel()
		got, err := r.Resolve("reports/q1.pdf")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "reports", "q1.pdf"), got)
	})

	t.Run("idempotent", func(t *testing.T) {
		t.Parallel()
		first, err := r.Resolve("reports/q1.pdf")
		require.NoError(t, err)
		second, err := r.Resolve("reports/q1.pdf")
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve("reports/q2.pdf")
		assert.ErrorIs(t, err, sandbox.ErrNotFound)
	})

	t.Run("component under a regular file", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve("reports/q1.pdf/inner")
		assert.ErrorIs(t, err, sandbox.ErrNotFound)
	})

	t.Run("traversal rejected before existence check", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve("../../etc/passwd")
		assert.ErrorIs(t, err, sandbox.ErrInvalidToken)
		assert.NotErrorIs(t, err, sandbox.ErrNotFound)

		// Same outcome whether or not the target exists.
		_, err = r.Resolve("../outside/secret.txt")
		assert.ErrorIs(t, err, sandbox.ErrInvalidToken)
	})

	t.Run("malformed token for missing target reports token error", func(t *testing.T) {
		t.Parallel()
		_, err := r.Resolve("nope//missing.txt")
		reason, ok := sandbox.RejectionReason(err)
		require.True(t, ok)
		assert.Equal(t, sandbox.ReasonDoubleSeparator, reason)
	})

	t.Run("symlink pointing outside", func(t *testing.T) {
		t.Parallel()
		link := filepath.Join(root, "escape.txt")
		require.NoError(t, os.Symlink(filepath.Join(outside, "secret.txt"), link))

		got, err := r.Resolve("escape.txt")
		assert.ErrorIs(t, err, sandbox.ErrOutsideSandbox)
		assert.Empty(t, got)
	})

	t.Run("directory symlink pointing outside", func(t *testing.T) {
		t.Parallel()
		link := filepath.Join(root, "outdir")
		require.NoError(t, os.Symlink(outside, link))

		_, err := r.Resolve("outdir/secret.txt")
		assert.ErrorIs(t, err, sandbox.ErrOutsideSandbox)
	})

	t.Run("sibling with shared prefix", func(t *testing.T) {
		t.Parallel()
		sibling := root + "-other"
		require.NoError(t, os.MkdirAll(sibling, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(sibling, "x.txt"), []byte("x"), 0o644))
		link := filepath.Join(root, "prefix-trick")
		require.NoError(t, os.Symlink(filepath.Join(sibling, "x.txt"), link))

		_, err := r.Resolve("prefix-trick")
		assert.ErrorIs(t, err, sandbox.ErrOutsideSandbox)
	})

	t.Run("symlink staying inside", func(t *testing.T) {
		t.Parallel()
		link := filepath.Join(root, "latest.pdf")
		require.NoError(t, os.Symlink(filepath.Join(root, "reports", "q1.pdf"), link))

		got, err := r.Resolve("latest.pdf")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "reports", "q1.pdf"), got)
	})

	t.Run("dangling symlink", func(t *testing.T) {
		t.Parallel()
		link := filepath.Join(root, "dangling")
		require.NoError(t, os.Symlink(filepath.Join(outside, "gone.txt"), link))

		_, err := r.Resolve("dangling")
		assert.ErrorIs(t, err, sandbox.ErrNotFound)
	})
}

func TestResolver_EscapeResistance(t *testing.T) {
	t.Parallel()

	_, _, r := newSandbox(t)

	hostile := []string{
		"..",
		"../",
		"../outside/secret.txt",
		"reports/../../outside/secret.txt",
		"/etc/passwd",
		"/",
		"reports/../..",
	}
	for _, raw := range hostile {
		got, err := r.Resolve(raw)
		assert.Error(t, err, raw)
		assert.Empty(t, got, raw)
	}
}

func TestResolver_ResolveToken(t *testing.T) {
	t.Parallel()

	root, _, r := newSandbox(t)

	tok, err := sandbox.ParseToken("reports/q1.pdf")
	require.NoError(t, err)

	got, err := r.ResolveToken(tok)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "reports", "q1.pdf"), got)

	_, err = r.ResolveToken(sandbox.Token{})
	assert.ErrorIs(t, err, sandbox.ErrInvalidToken)
}
