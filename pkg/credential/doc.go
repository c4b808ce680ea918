// Package credential verifies a presented username and password against the single
// credential pair configured for the process.
//
// The configured pair is never stored in plain text. NewVerifier digests both values with a
// per-process random key (keyed BLAKE2b-256) and Verify digests the presented values the same
// way, so every comparison runs over two 32-byte digests no matter how long the inputs are.
// The username and password digests are compared with crypto/subtle and the results are
// combined with a bitwise AND, so a wrong username costs exactly as much as a wrong password.
//
// # Usage
//
//	v, err := credential.NewVerifier(cfg.Auth.Username, cfg.Auth.Password)
//	if err != nil {
//	    return err
//	}
//
//	ok, err := v.Verify(user, pass)
//	if errors.Is(err, credential.ErrEmptyCredentials) {
//	    // malformed request, not a wrong password
//	}
//
// # Error Handling
//
// Verify fails only with ErrEmptyCredentials. A mismatch is reported as (false, nil).
package credential
