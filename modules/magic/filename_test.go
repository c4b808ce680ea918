package magic_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/magicer/modules/magic"
)

func TestNormalizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		max     int
		want    string
		wantErr error
	}{
		{"plain", "report.pdf", 0, "report.pdf", nil},
		{"windows style", `C:\Users\me\file.txt`, 0, `C:\Users\me\file.txt`, nil},
		{"nfc", "cafe\u0301", 0, "caf\u00e9", nil},
		{"at limit", strings.Repeat("a", 310), 0, strings.Repeat("a", 310), nil},
		{"custom limit", "abcdef", 5, "", magic.ErrFilenameTooLong},
		{"empty", "", 0, "", magic.ErrEmptyFilename},
		{"too long", strings.Repeat("a", 311), 0, "", magic.ErrFilenameTooLong},
		{"slash", "a/b", 0, "", magic.ErrFilenameInvalidChar},
		{"nul", "a\x00b", 0, "", magic.ErrFilenameInvalidChar},
		{"invalid utf8", "a\xffb", 0, "", magic.ErrFilenameInvalidChar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := magic.NormalizeFilename(tt.raw, tt.max)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
