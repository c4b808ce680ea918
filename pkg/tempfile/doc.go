// Package tempfile creates exclusively owned temporary files in a dedicated working directory
// and guarantees their removal.
//
// Names combine a nanosecond timestamp, a random UUID and eight random alphanumeric characters.
// Files are created with O_CREATE|O_EXCL and mode 0600 in a single call, so a name collision is
// detected by the create call itself and retried with a fresh name. There is no separate
// existence check and therefore no check-then-create race between concurrent requests.
//
// A Handle owns exactly one file. Remove is idempotent: the first successful call deletes the
// file and every later call is a no-op, which makes it safe to both defer Remove and call it
// explicitly on an error path.
//
//	h, err := mgr.Create(nil)
//	if err != nil {
//	    return err
//	}
//	defer h.Remove()
//
// Files left behind by a crashed process are collected by Sweeper, which deletes files that
// match the manager's naming scheme and are older than a generous maximum age.
package tempfile
