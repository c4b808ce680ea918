package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/dmitrymomot/magicer/pkg/tempfile"
)

const (
	DefaultMemoryThreshold int64  = 10 << 20
	DefaultBufferSize      int    = 64 << 10
	DefaultMinFreeSpace    uint64 = 1024 << 20
)

// Config holds the ingestion limits.
type Config struct {
	// MemoryThreshold is the largest declared length read into memory.
	MemoryThreshold int64
	// BufferSize is the size of the single copy buffer used by StreamToFile.
	BufferSize int
	// MinFreeSpace is the floor checked before any file is created.
	MinFreeSpace uint64
	// MmapFallback reads the file into memory when mapping fails.
	MmapFallback bool
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		MemoryThreshold: DefaultMemoryThreshold,
		BufferSize:      DefaultBufferSize,
		MinFreeSpace:    DefaultMinFreeSpace,
		MmapFallback:    true,
	}
}

// Ingester reads request bodies into memory or into temporary files.
// It keeps no per-request state and is safe for concurrent use.
type Ingester struct {
	files *tempfile.Manager
	cfg   Config
	space SpaceFunc
	mmap  MapFunc
	unmap UnmapFunc
}

// Option configures an Ingester.
type Option func(*Ingester)

// WithSpaceFunc replaces the free-space probe.
func WithSpaceFunc(fn SpaceFunc) Option {
	return func(in *Ingester) {
		if fn != nil {
			in.space = fn
		}
	}
}

// WithMapFunc replaces the memory mapper and its release function.
func WithMapFunc(mmap MapFunc, unmap UnmapFunc) Option {
	return func(in *Ingester) {
		if mmap != nil && unmap != nil {
			in.mmap = mmap
			in.unmap = unmap
		}
	}
}

// New creates an Ingester writing temporary files through files.
// Zero values in cfg fall back to the defaults, except MmapFallback.
func New(files *tempfile.Manager, cfg Config, opts ...Option) *Ingester {
	if cfg.MemoryThreshold <= 0 {
		cfg.MemoryThreshold = DefaultMemoryThreshold
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = DefaultBufferSize
	}
	if cfg.MinFreeSpace == 0 {
		cfg.MinFreeSpace = DefaultMinFreeSpace
	}

	in := &Ingester{
		files: files,
		cfg:   cfg,
		space: AvailableSpace,
		mmap:  MapFile,
		unmap: Unmap,
	}
	for _, opt := range opts {
		opt(in)
	}
	return in
}

// Config returns the effective configuration.
func (in *Ingester) Config() Config {
	return in.cfg
}

// Choose returns the strategy for a body. A negative declaredLength means unknown.
func (in *Ingester) Choose(declaredLength int64, chunked bool) Strategy {
	if chunked || declaredLength < 0 || declaredLength > in.cfg.MemoryThreshold {
		return StrategyDisk
	}
	return StrategyMemory
}

// Ingest reads src using the strategy chosen from declaredLength and chunked.
func (in *Ingester) Ingest(ctx context.Context, src io.Reader, declaredLength int64, chunked bool) (*Payload, error) {
	if in.Choose(declaredLength, chunked) == StrategyDisk {
		return in.StreamToFile(ctx, src)
	}
	return in.readToMemory(ctx, src, declaredLength)
}

// readToMemory never buffers more than MemoryThreshold+1 bytes, whatever the client declared.
func (in *Ingester) readToMemory(ctx context.Context, src io.Reader, declaredLength int64) (*Payload, error) {
	limit := in.cfg.MemoryThreshold
	var buf bytes.Buffer
	buf.Grow(int(min(declaredLength, limit)) + 1)

	if _, err := buf.ReadFrom(io.LimitReader(contextReader{ctx: ctx, r: src}, limit+1)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIngestionFailed, err)
	}
	if int64(buf.Len()) > limit {
		return nil, fmt.Errorf("%w: body exceeds %s", ErrPayloadTooLarge, humanize.IBytes(uint64(limit)))
	}
	if buf.Len() == 0 {
		return nil, ErrEmptyPayload
	}
	return newMemoryPayload(buf.Bytes()), nil
}

// StreamToFile copies src into a new temporary file through a single BufferSize buffer, syncs
// it and maps it read-only. Free space is checked before the file is created. On any failure
// the file is removed before returning.
func (in *Ingester) StreamToFile(ctx context.Context, src io.Reader) (*Payload, error) {
	if err := in.preflight(); err != nil {
		return nil, err
	}

	h, err := in.files.Create(nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTempFile, err)
	}

	ok := false
	defer func() {
		if !ok {
			_ = h.Remove()
		}
	}()

	size, err := in.copyBounded(ctx, h, src)
	if err != nil {
		return nil, err
	}
	if size == 0 {
		return nil, ErrEmptyPayload
	}
	if err := h.Sync(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIngestionFailed, err)
	}

	data, unmap, err := in.load(h, size)
	if err != nil {
		return nil, err
	}
	// The mapping outlives the descriptor.
	_ = h.Close()

	ok = true
	return newDiskPayload(data, h, unmap), nil
}

func (in *Ingester) preflight() error {
	avail, err := in.space(in.files.Dir())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSpaceCheckFailed, err)
	}
	if avail < in.cfg.MinFreeSpace {
		return fmt.Errorf("%w: %s available, %s required",
			ErrInsufficientStorage, humanize.IBytes(avail), humanize.IBytes(in.cfg.MinFreeSpace))
	}
	return nil
}

// copyBounded is io.Copy with a caller-owned buffer and a context check per chunk. io.Copy
// would use ReaderFrom or WriterTo when available, neither of which bounds the buffer.
func (in *Ingester) copyBounded(ctx context.Context, dst io.Writer, src io.Reader) (int64, error) {
	buf := make([]byte, in.cfg.BufferSize)
	var total int64

	for {
		select {
		case <-ctx.Done():
			return total, fmt.Errorf("%w: %w", ErrIngestionFailed, ctx.Err())
		default:
		}

		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return total, fmt.Errorf("%w: %w", ErrIngestionFailed, werr)
			}
			total += int64(n)
		}
		if rerr == io.EOF {
			return total, nil
		}
		if rerr != nil {
			return total, fmt.Errorf("%w: %w", ErrIngestionFailed, rerr)
		}
	}
}

// load maps the synced file, or reads it back when mapping fails and fallback is enabled.
// The returned UnmapFunc is nil when the data is a plain heap slice.
func (in *Ingester) load(h *tempfile.Handle, size int64) ([]byte, UnmapFunc, error) {
	f := h.File()

	data, err := in.mmap(f, size)
	if err == nil {
		return data, in.unmap, nil
	}
	if !in.cfg.MmapFallback {
		return nil, nil, fmt.Errorf("%w: %v", ErrMappingFailed, err)
	}

	data = make([]byte, size)
	if _, rerr := f.ReadAt(data, 0); rerr != nil && rerr != io.EOF {
		return nil, nil, fmt.Errorf("%w: %v (read fallback: %v)", ErrMappingFailed, err, rerr)
	}
	return data, nil, nil
}

type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
