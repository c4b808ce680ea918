package ingest

import (
	"errors"
	"sync"

	"github.com/dmitrymomot/magicer/pkg/tempfile"
)

// Strategy names how a payload was ingested.
type Strategy string

const (
	StrategyMemory Strategy = "memory"
	StrategyDisk   Strategy = "disk"
)

// Payload is an ingested byte range. The owner must call Close exactly once it is done with
// Bytes; extra calls are harmless.
type Payload struct {
	strategy Strategy
	data     []byte
	handle   *tempfile.Handle
	unmap    UnmapFunc

	mu     sync.Mutex
	closed bool
}

func newMemoryPayload(data []byte) *Payload {
	return &Payload{strategy: StrategyMemory, data: data}
}

func newDiskPayload(data []byte, h *tempfile.Handle, unmap UnmapFunc) *Payload {
	return &Payload{strategy: StrategyDisk, data: data, handle: h, unmap: unmap}
}

// Bytes returns the payload contents. The slice is read-only and invalid after Close.
func (p *Payload) Bytes() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	return p.data
}

// Len returns the payload size in bytes.
func (p *Payload) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.data)
}

// Strategy reports how the payload was ingested. It is meant for logs and metrics only.
func (p *Payload) Strategy() Strategy {
	return p.strategy
}

// Path returns the backing file path, or "" for in-memory payloads.
func (p *Payload) Path() string {
	if p.handle == nil {
		return ""
	}
	return p.handle.Path()
}

// Discard deletes the backing file but keeps Bytes valid. On Linux a mapping survives the
// unlink, which lets a caller give up on a slow reader without leaking the file.
func (p *Payload) Discard() error {
	if p.handle == nil {
		return nil
	}
	return p.handle.Remove()
}

// Close releases the mapping and deletes the backing file.
func (p *Payload) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	data := p.data
	p.data = nil
	p.mu.Unlock()

	var unmapErr error
	if p.unmap != nil {
		unmapErr = p.unmap(data)
	}
	return errors.Join(p.Discard(), unmapErr)
}
