package sandbox_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/magicer/pkg/sandbox"
)

func TestParseToken(t *testing.T) {
	t.Parallel()

	valid := []string{
		"file.txt",
		"reports/q1.pdf",
		"a/b/c/d.bin",
		"name with spaces.txt",
		"файл.txt",
		"..hidden",
		"dir.../x",
		".env",
	}
	for _, raw := range valid {
		t.Run("valid "+raw, func(t *testing.T) {
			t.Parallel()
			tok, err := sandbox.ParseToken(raw)
			require.NoError(t, err)
			assert.Equal(t, raw, tok.String())
			assert.False(t, tok.IsZero())
		})
	}

	invalid := []struct {
		raw    string
		reason sandbox.Reason
	}{
		{"", sandbox.ReasonEmpty},
		{"bad\xffbyte", sandbox.ReasonBadEncoding},
		{"nul\x00byte", sandbox.ReasonBadEncoding},
		{"/etc/passwd", sandbox.ReasonAbsolute},
		{`\windows\system32`, sandbox.ReasonAbsolute},
		{"..", sandbox.ReasonParentTraversal},
		{"../../etc/passwd", sandbox.ReasonParentTraversal},
		{"a/../b", sandbox.ReasonParentTraversal},
		{"a/..", sandbox.ReasonParentTraversal},
		{"a//b", sandbox.ReasonDoubleSeparator},
		{"./a", sandbox.ReasonDotSegment},
		{"a/./b", sandbox.ReasonDotSegment},
		{" leading", sandbox.ReasonLeadingSpace},
	}
	for _, tt := range invalid {
		t.Run("invalid "+string(tt.reason), func(t *testing.T) {
			t.Parallel()
			tok, err := sandbox.ParseToken(tt.raw)
			require.Error(t, err)
			assert.True(t, tok.IsZero())
			assert.ErrorIs(t, err, sandbox.ErrInvalidToken)

			reason, ok := sandbox.RejectionReason(err)
			require.True(t, ok)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestParseToken_ReasonPrecedence(t *testing.T) {
	t.Parallel()

	// Absolute wins over traversal, traversal over repeated separators.
	_, err := sandbox.ParseToken("/../x")
	reason, _ := sandbox.RejectionReason(err)
	assert.Equal(t, sandbox.ReasonAbsolute, reason)

	_, err = sandbox.ParseToken("a//../b")
	reason, _ = sandbox.RejectionReason(err)
	assert.Equal(t, sandbox.ReasonParentTraversal, reason)
}

func TestReason_IsTraversal(t *testing.T) {
	t.Parallel()

	assert.True(t, sandbox.ReasonAbsolute.IsTraversal())
	assert.True(t, sandbox.ReasonParentTraversal.IsTraversal())
	assert.False(t, sandbox.ReasonEmpty.IsTraversal())
	assert.False(t, sandbox.ReasonDoubleSeparator.IsTraversal())
}
