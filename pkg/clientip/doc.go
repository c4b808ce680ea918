// Package clientip determines the address of the client behind a request and stores it in the
// request context for logging.
//
// Forwarding headers are easy to forge, so X-Forwarded-For and X-Real-IP are honoured only when
// the direct peer is one of the configured trusted proxies. X-Forwarded-For is walked from the
// right and the first hop that is not itself a trusted proxy is taken as the client. With no
// trusted proxies the peer address is always used.
package clientip
