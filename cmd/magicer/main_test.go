package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/magicer/pkg/config"
	"github.com/dmitrymomot/magicer/pkg/tempfile"
)

func testEnv(t *testing.T) map[string]string {
	t.Helper()
	base := t.TempDir()
	return map[string]string{
		"MAGICER_HTTP_ADDR":               "127.0.0.1:0",
		"MAGICER_AUTH_USERNAME":           "admin",
		"MAGICER_AUTH_PASSWORD":           "s3cret",
		"MAGICER_ANALYSIS_WORK_DIR":       filepath.Join(base, "work"),
		"MAGICER_ANALYSIS_MIN_FREE_SPACE": "1KiB",
		"MAGICER_SANDBOX_ROOT":            filepath.Join(base, "files"),
		"MAGICER_LOG_LEVEL":               "debug",
	}
}

func execute(t *testing.T, ctx context.Context, env map[string]string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(config.WithEnvironment(env))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func TestSweepCommand(t *testing.T) {
	t.Parallel()
	env := testEnv(t)
	workDir := env["MAGICER_ANALYSIS_WORK_DIR"]
	require.NoError(t, os.MkdirAll(workDir, 0o700))

	stale := filepath.Join(workDir, tempfile.DefaultName())
	fresh := filepath.Join(workDir, tempfile.DefaultName())
	foreign := filepath.Join(workDir, "keep.txt")
	for _, p := range []string{stale, fresh, foreign} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o600))
	}
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(foreign, old, old))

	out, _, err := execute(t, context.Background(), env, "sweep")
	require.NoError(t, err)
	assert.Contains(t, out, "removed 1 stale temp file(s)")

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, foreign)
}

func TestServeCommandStopsOnCancel(t *testing.T) {
	t.Parallel()
	env := testEnv(t)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	_, logs, err := execute(t, ctx, env, "serve")
	require.NoError(t, err)
	assert.Contains(t, logs, "starting magicer")
	assert.Contains(t, logs, "http server listening")
	assert.NotContains(t, logs, "s3cret")
}

func TestServeCommandInvalidConfig(t *testing.T) {
	t.Parallel()
	env := testEnv(t)
	delete(env, "MAGICER_AUTH_PASSWORD")

	_, _, err := execute(t, context.Background(), env, "serve")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestAppRouter(t *testing.T) {
	t.Parallel()
	cfg, err := config.Read("", config.WithEnvironment(testEnv(t)))
	require.NoError(t, err)

	var logs bytes.Buffer
	a, err := newApp(cfg, &logs)
	require.NoError(t, err)

	t.Run("ping", func(t *testing.T) {
		rec := httptest.NewRecorder()
		a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Data struct {
				Message string `json:"message"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "pong", body.Data.Message)
	})

	t.Run("readiness", func(t *testing.T) {
		rec := httptest.NewRecorder()
		a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "READY", rec.Body.String())
	})

	t.Run("content", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/magic/content?filename=a.pdf", bytes.NewReader([]byte("%PDF-1.4\n%%EOF\n")))
		req.SetBasicAuth("admin", "s3cret")
		rec := httptest.NewRecorder()
		a.router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), `"mime_type":"application/pdf"`)
	})
}
