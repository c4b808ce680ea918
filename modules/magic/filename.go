package magic

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// DefaultMaxFilenameSize is the longest accepted filename hint in bytes.
const DefaultMaxFilenameSize = 310

var (
	ErrEmptyFilename       = errors.New("filename is empty")
	ErrFilenameTooLong     = errors.New("filename is too long")
	ErrFilenameInvalidChar = errors.New("filename contains an invalid character")
)

// NormalizeFilename validates a client supplied filename hint and returns it in NFC.
// The hint is only echoed back and passed to the classifier, never used as a path.
func NormalizeFilename(raw string, maxSize int) (string, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxFilenameSize
	}
	if raw == "" {
		return "", ErrEmptyFilename
	}
	if !utf8.ValidString(raw) || strings.ContainsAny(raw, "/\x00") {
		return "", ErrFilenameInvalidChar
	}

	name := norm.NFC.String(raw)
	if len(name) > maxSize {
		return "", ErrFilenameTooLong
	}
	return name, nil
}
