package classifier

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"strings"
	"syscall"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultHeaderSize matches the number of leading bytes mimetype inspects by default.
const DefaultHeaderSize = 3072

const (
	encodingBinary = "binary"
	encodingASCII  = "us-ascii"

	emptyMIME        = "inode/x-empty"
	emptyDescription = "empty"
	fallbackDesc     = "data"
)

// Mimetype is a content-sniffing Classifier.
type Mimetype struct {
	headerSize int
}

// MimetypeOption configures Mimetype.
type MimetypeOption func(*Mimetype)

// WithHeaderSize sets how many leading bytes are read from files.
func WithHeaderSize(n int) MimetypeOption {
	return func(m *Mimetype) {
		if n > 0 {
			m.headerSize = n
		}
	}
}

// NewMimetype returns a Mimetype classifier.
func NewMimetype(opts ...MimetypeOption) *Mimetype {
	m := &Mimetype{headerSize: DefaultHeaderSize}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ClassifyBytes implements Classifier. Detection is purely content based; the hint is ignored.
func (m *Mimetype) ClassifyBytes(data []byte, _ string) (Result, error) {
	return classify(data), nil
}

// ClassifyPath implements Classifier. Only the first headerSize bytes of the file are read.
func (m *Mimetype) ClassifyPath(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, openError(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	if !info.Mode().IsRegular() {
		return Result{}, fmt.Errorf("%w: %s is not a regular file", ErrUnsupported, info.Mode().Type())
	}

	header := make([]byte, min(int64(m.headerSize), info.Size()))
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
	return classify(header[:n]), nil
}

func openError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	case errors.Is(err, syscall.EISDIR):
		return fmt.Errorf("%w: %v", ErrUnsupported, err)
	default:
		return fmt.Errorf("%w: %v", ErrReadFailed, err)
	}
}

func classify(data []byte) Result {
	if len(data) == 0 {
		return Result{MIMEType: emptyMIME, Description: emptyDescription, Encoding: encodingBinary}
	}

	detected := mimetype.Detect(data)
	mediaType, params, err := mime.ParseMediaType(detected.String())
	if err != nil {
		mediaType = detected.String()
	}

	encoding := encodingBinary
	if charset := strings.ToLower(params["charset"]); charset != "" {
		encoding = charset
		if charset == "utf-8" && isASCII(data) {
			encoding = encodingASCII
		}
	}

	return Result{
		MIMEType:    mediaType,
		Description: describe(detected, mediaType, encoding),
		Encoding:    encoding,
	}
}

func isASCII(data []byte) bool {
	for _, b := range data {
		if b >= 0x80 {
			return false
		}
	}
	return true
}
