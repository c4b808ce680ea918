// Package sandbox confines path-based analysis to a single root directory.
//
// A caller-supplied relative path is first parsed into a Token, which rejects (never repairs)
// empty input, invalid UTF-8 or NUL bytes, absolute paths, parent-directory segments, repeated
// separators, "." segments and a leading space. Only then is the token joined to the root, checked
// for existence, canonicalized with filepath.EvalSymlinks and compared component-wise against the
// canonical root. The final comparison is what defeats a symlink inside the root that points
// outside of it.
//
// The order is fixed: token errors are always reported before existence errors, so malformed
// input never reveals whether something exists on disk.
//
// # Usage
//
//	r, err := sandbox.NewResolver("/data")
//	if err != nil {
//	    return err
//	}
//
//	abs, err := r.Resolve("reports/q1.pdf") // "/data/reports/q1.pdf"
//
// # Error Handling
//
// Token failures are returned as *RejectionError carrying a Reason and matching ErrInvalidToken.
// Filesystem outcomes map to ErrNotFound, ErrOutsideSandbox and ErrAccessDenied. Raw filesystem
// errors are wrapped, never returned bare.
package sandbox
