// Package ingest turns an untrusted request body into a byte range that can be handed to a
// classifier, while bounding memory use and cleaning up after itself.
//
// Ingest picks one of two strategies per request:
//
//   - memory: the body is small and its length is declared, so it is read into memory through a
//     limit of MemoryThreshold+1 bytes. A body longer than declared fails with
//     ErrPayloadTooLarge instead of growing past the threshold.
//   - disk: the body is chunked, of unknown length, or declared larger than the threshold.
//     StreamToFile checks free space first, then copies the body through one fixed-size buffer
//     into an exclusively owned temporary file, syncs it and maps it read-only.
//
// Either way the caller gets a *Payload exposing only Bytes and Len; the classifier never
// learns which strategy produced it. Close releases the mapping and deletes the temporary file.
//
// This package uses golang.org/x/sys/unix for statfs(2) and mmap(2) and builds on Unix only.
package ingest
