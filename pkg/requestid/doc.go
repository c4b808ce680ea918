// Package requestid assigns every request a UUID, stores it in the request context and echoes it
// in the X-Request-ID response header.
//
// A client supplied X-Request-ID is kept only if it parses as a UUID; it is then rewritten in
// canonical lowercase form. Anything else is replaced with a fresh random UUID.
package requestid
