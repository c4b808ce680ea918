// Package magic exposes file type analysis over HTTP.
//
// Routes:
//
//	GET  /healthz                             liveness, no auth
//	GET  /v1/ping                             liveness with request id, no auth
//	POST /v1/magic/content?filename=          classify the request body
//	POST /v1/magic/path?filename=&path=       classify a file under the sandbox root
//
// The /v1/magic routes require HTTP Basic auth. Every JSON body carries the request id in
// "meta", and the same id is returned in the X-Request-ID header.
package magic
