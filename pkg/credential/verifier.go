package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/blake2b"
)

const keySize = 32

// Verifier compares presented credentials against the configured pair.
// It holds only keyed digests and is safe for concurrent use.
type Verifier struct {
	key      []byte
	username [blake2b.Size256]byte
	password [blake2b.Size256]byte
}

// NewVerifier digests the configured pair with a freshly generated key.
func NewVerifier(username, password string) (*Verifier, error) {
	if username == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	key := make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}

	v := &Verifier{key: key}
	v.username = v.digest(username)
	v.password = v.digest(password)
	return v, nil
}

// Verify reports whether the presented pair matches the configured one.
// Both digests are always computed and compared; the results are combined with a
// bitwise AND so total work does not depend on which field is wrong or where.
func (v *Verifier) Verify(username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, ErrEmptyCredentials
	}

	presentedUser := v.digest(username)
	presentedPass := v.digest(password)

	userOK := subtle.ConstantTimeCompare(presentedUser[:], v.username[:])
	passOK := subtle.ConstantTimeCompare(presentedPass[:], v.password[:])

	return userOK&passOK == 1, nil
}

// LogValue keeps the verifier out of logs.
func (v *Verifier) LogValue() slog.Value {
	return slog.StringValue("[redacted]")
}

// String keeps the verifier out of fmt output.
func (v *Verifier) String() string {
	return "[redacted]"
}

func (v *Verifier) digest(s string) [blake2b.Size256]byte {
	// Key length is fixed at 32 bytes, which blake2b always accepts.
	h, _ := blake2b.New256(v.key)
	h.Write([]byte(s))

	var out [blake2b.Size256]byte
	copy(out[:], h.Sum(nil))
	return out
}
