// Package classifier identifies file types.
//
// Classifier is the contract the analysis layer depends on: it takes either an in-memory byte
// range or a path and returns a MIME type, a human readable description and, for text, the
// character encoding. Mimetype implements it on top of github.com/gabriel-vasile/mimetype,
// inspecting only the leading bytes of the content.
package classifier
