package sandbox

import (
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Token is a validated path relative to the sandbox root.
// The zero value is not valid; use ParseToken.
type Token struct {
	value string
}

// ParseToken validates raw and returns it as a Token.
// Checks run in a fixed order so the same input always yields the same reason.
func ParseToken(raw string) (Token, error) {
	if raw == "" {
		return Token{}, reject(ReasonEmpty)
	}
	if !utf8.ValidString(raw) || strings.ContainsRune(raw, 0) {
		return Token{}, reject(ReasonBadEncoding)
	}
	if strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, `\`) || filepath.VolumeName(raw) != "" {
		return Token{}, reject(ReasonAbsolute)
	}

	segments := strings.Split(raw, "/")
	for _, seg := range segments {
		if seg == ".." {
			return Token{}, reject(ReasonParentTraversal)
		}
	}

	if strings.Contains(raw, "//") {
		return Token{}, reject(ReasonDoubleSeparator)
	}
	for _, seg := range segments {
		if seg == "." {
			return Token{}, reject(ReasonDotSegment)
		}
	}
	if strings.HasPrefix(raw, " ") {
		return Token{}, reject(ReasonLeadingSpace)
	}

	return Token{value: raw}, nil
}

// String returns the token as supplied.
func (t Token) String() string {
	return t.value
}

// IsZero reports whether t was not produced by ParseToken.
func (t Token) IsZero() bool {
	return t.value == ""
}
