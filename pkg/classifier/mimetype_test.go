package classifier_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/magicer/pkg/classifier"
)

var (
	pdfSample = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n%%EOF\n")
	pngSample = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
)

func TestMimetype_ClassifyBytes(t *testing.T) {
	t.Parallel()

	m := classifier.NewMimetype()

	tests := []struct {
		name string
		data []byte
		want classifier.Result
	}{
		{
			name: "pdf",
			data: pdfSample,
			want: classifier.Result{MIMEType: "application/pdf", Description: "PDF document", Encoding: "binary"},
		},
		{
			name: "png",
			data: pngSample,
			want: classifier.Result{MIMEType: "image/png", Description: "PNG image data", Encoding: "binary"},
		},
		{
			name: "ascii text",
			data: []byte("hello world\nsecond line\n"),
			want: classifier.Result{MIMEType: "text/plain", Description: "ASCII text", Encoding: "us-ascii"},
		},
		{
			name: "utf-8 text",
			data: []byte("naïve café résumé\n"),
			want: classifier.Result{MIMEType: "text/plain", Description: "Unicode text, UTF-8 text", Encoding: "utf-8"},
		},
		{
			name: "unknown binary",
			data: []byte{0x00, 0x01, 0x02, 0x03, 0xfe, 0xff, 0x00, 0x7f},
			want: classifier.Result{MIMEType: "application/octet-stream", Description: "data", Encoding: "binary"},
		},
		{
			name: "empty",
			data: nil,
			want: classifier.Result{MIMEType: "inode/x-empty", Description: "empty", Encoding: "binary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := m.ClassifyBytes(tt.data, "ignored.bin")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMimetype_ClassifyPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "q1.pdf")
	require.NoError(t, os.WriteFile(pdfPath, pdfSample, 0o600))

	m := classifier.NewMimetype(classifier.WithHeaderSize(16))

	t.Run("regular file", func(t *testing.T) {
		t.Parallel()
		got, err := m.ClassifyPath(pdfPath)
		require.NoError(t, err)
		assert.Equal(t, "application/pdf", got.MIMEType)
		assert.Equal(t, "PDF document", got.Description)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := m.ClassifyPath(filepath.Join(dir, "nope.pdf"))
		assert.ErrorIs(t, err, classifier.ErrNotFound)
	})

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		_, err := m.ClassifyPath(dir)
		assert.ErrorIs(t, err, classifier.ErrUnsupported)
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()
		p := filepath.Join(dir, "empty")
		require.NoError(t, os.WriteFile(p, nil, 0o600))
		got, err := m.ClassifyPath(p)
		require.NoError(t, err)
		assert.Equal(t, "inode/x-empty", got.MIMEType)
	})
}
