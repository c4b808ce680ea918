package magic_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/magicer/modules/magic"
	"github.com/dmitrymomot/magicer/pkg/analysis"
	"github.com/dmitrymomot/magicer/pkg/classifier"
	"github.com/dmitrymomot/magicer/pkg/credential"
	"github.com/dmitrymomot/magicer/pkg/ingest"
	"github.com/dmitrymomot/magicer/pkg/sandbox"
	"github.com/dmitrymomot/magicer/pkg/tempfile"
)

type stack struct {
	h       http.Handler
	workDir string
	root    string
}

func newStack(t *testing.T, opts ...analysis.Option) *stack {
	t.Helper()

	workDir := t.TempDir()
	files, err := tempfile.NewManager(workDir)
	require.NoError(t, err)
	in := ingest.New(files, ingest.Config{MemoryThreshold: 1024, BufferSize: 256},
		ingest.WithSpaceFunc(func(string) (uint64, error) { return 1 << 40, nil }))

	res, err := sandbox.NewResolver(t.TempDir())
	require.NoError(t, err)

	v, err := credential.NewVerifier(testUser, testPass)
	require.NoError(t, err)

	r, err := magic.Router(magic.RouterOptions{
		Analyzer:      analysis.NewService(in, res, classifier.NewMimetype(), opts...),
		Authenticator: v,
		MaxBodySize:   1 << 20,
	})
	require.NoError(t, err)

	return &stack{h: r, workDir: workDir, root: res.Root()}
}

func (s *stack) assertNoTempFiles(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(s.workDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEndToEnd(t *testing.T) {
	t.Parallel()

	t.Run("small body in memory", func(t *testing.T) {
		t.Parallel()
		s := newStack(t)
		body := "%PDF-1.4\n" + strings.Repeat("x", 41)

		rec, env := do(t, s.h, authed(http.MethodPost, "/v1/magic/content?filename=a.pdf", strings.NewReader(body)))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/pdf", env.Data.Result.MIMEType)
		assert.Equal(t, "PDF document", env.Data.Result.Description)
		s.assertNoTempFiles(t)
	})

	t.Run("chunked body on disk", func(t *testing.T) {
		t.Parallel()
		s := newStack(t)
		body := bytes.Repeat([]byte("hello world\n"), 500)

		req := authed(http.MethodPost, "/v1/magic/content?filename=notes.txt", bytes.NewReader(body))
		req.ContentLength = -1
		req.TransferEncoding = []string{"chunked"}
		rec, env := do(t, s.h, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "text/plain", env.Data.Result.MIMEType)
		assert.Equal(t, "us-ascii", env.Data.Result.Encoding)
		s.assertNoTempFiles(t)
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()
		s := newStack(t)
		rec, env := do(t, s.h, authed(http.MethodPost, "/v1/magic/content?filename=a", http.NoBody))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		s.assertNoTempFiles(t)
	})

	t.Run("sandboxed path", func(t *testing.T) {
		t.Parallel()
		s := newStack(t)
		require.NoError(t, os.MkdirAll(filepath.Join(s.root, "reports"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(s.root, "reports", "q1.pdf"), []byte("%PDF-1.7\n%%EOF\n"), 0o600))

		rec, env := do(t, s.h, authed(http.MethodPost, "/v1/magic/path?filename=q1.pdf&path=reports%2Fq1.pdf", nil))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "application/pdf", env.Data.Result.MIMEType)
	})

	t.Run("traversal is rejected", func(t *testing.T) {
		t.Parallel()
		s := newStack(t)
		rec, env := do(t, s.h, authed(http.MethodPost, "/v1/magic/path?filename=p&path=..%2F..%2Fetc%2Fpasswd", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.NotNil(t, env.Error)
		assert.NotContains(t, rec.Body.String(), "root:")
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		s := newStack(t)
		rec, _ := do(t, s.h, authed(http.MethodPost, "/v1/magic/path?filename=p&path=nope.bin", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestEndToEnd_StalledUpload(t *testing.T) {
	t.Parallel()
	s := newStack(t, analysis.WithIngestTimeout(50*time.Millisecond))

	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	go func() {
		// First chunk arrives, then the client goes silent.
		_, _ = pw.Write(bytes.Repeat([]byte("a"), 2048))
	}()

	req := authed(http.MethodPost, "/v1/magic/content?filename=slow.bin", pr)
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}

	rec := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.h.ServeHTTP(rec, req)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("stalled upload was not cut off by the ingest timeout")
	}

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, "timeout", env.Error.Code)
	s.assertNoTempFiles(t)
}
