package tempfile

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	namePrefix   = "magicer_"
	nameSuffix   = ".tmp"
	suffixLength = 8
	alphabet     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NameFunc generates candidate file names. It must return a bare name, not a path.
type NameFunc func() string

// DefaultName returns magicer_<unix-nanos>_<uuid-hex>_<8 alnum>.tmp.
func DefaultName() string {
	id := uuid.New()

	var sb strings.Builder
	sb.Grow(len(namePrefix) + 20 + 1 + 32 + 1 + suffixLength + len(nameSuffix))
	sb.WriteString(namePrefix)
	sb.WriteString(strconv.FormatInt(time.Now().UnixNano(), 10))
	sb.WriteByte('_')
	sb.WriteString(strings.ReplaceAll(id.String(), "-", ""))
	sb.WriteByte('_')
	sb.WriteString(randomSuffix(suffixLength))
	sb.WriteString(nameSuffix)
	return sb.String()
}

// IsManagedName reports whether name follows the scheme used by DefaultName.
// The sweeper only ever deletes files that pass this check.
func IsManagedName(name string) bool {
	return strings.HasPrefix(name, namePrefix) &&
		strings.HasSuffix(name, nameSuffix) &&
		!strings.ContainsRune(name, '/')
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf)
}
