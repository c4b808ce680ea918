package tempfile

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

const (
	// DefaultMaxAge is far longer than any request is allowed to run.
	DefaultMaxAge = time.Hour

	// DefaultSweepInterval is how often Run sweeps after the initial pass.
	DefaultSweepInterval = 10 * time.Minute
)

// Sweeper deletes stale temporary files left behind by crashed processes.
// It only touches files that match IsManagedName and are older than MaxAge, so files owned
// by in-flight requests are never considered.
type Sweeper struct {
	fs       afero.Fs
	dir      string
	maxAge   time.Duration
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) SweeperOption {
	return func(s *Sweeper) {
		if fs != nil {
			s.fs = fs
		}
	}
}

// WithMaxAge sets the minimum age of files eligible for removal.
func WithMaxAge(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// WithInterval sets the period between sweeps in Run.
func WithInterval(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) SweeperOption {
	return func(s *Sweeper) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

// NewSweeper returns a sweeper for dir.
func NewSweeper(dir string, opts ...SweeperOption) *Sweeper {
	s := &Sweeper{
		fs:       afero.NewOsFs(),
		dir:      dir,
		maxAge:   DefaultMaxAge,
		interval: DefaultSweepInterval,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sweep removes eligible files once and returns how many were deleted.
// Errors on individual files are logged and skipped; only a failure to list the directory
// is returned.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return 0, fmt.Errorf("tempfile: read %s: %w", s.dir, err)
	}

	cutoff := s.now().Add(-s.maxAge)
	removed := 0

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return removed, ctx.Err()
		default:
		}

		if entry.IsDir() || !entry.Mode().IsRegular() || !IsManagedName(entry.Name()) {
			continue
		}
		if !entry.ModTime().Before(cutoff) {
			continue
		}

		path := filepath.Join(s.dir, entry.Name())
		if err := s.fs.Remove(path); err != nil {
			s.logger.WarnContext(ctx, "failed to remove stale temp file",
				slog.String("path", path),
				slog.Any("error", err),
			)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.InfoContext(ctx, "removed stale temp files",
			slog.Int("count", removed),
			slog.String("dir", s.dir),
		)
	}
	return removed, nil
}

// Run sweeps immediately and then every interval until ctx is cancelled.
// It always returns nil so it can run inside an errgroup without stopping its peers.
func (s *Sweeper) Run(ctx context.Context) error {
	s.sweepLogged(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.sweepLogged(ctx)
		}
	}
}

func (s *Sweeper) sweepLogged(ctx context.Context) {
	if _, err := s.Sweep(ctx); err != nil && ctx.Err() == nil {
		s.logger.ErrorContext(ctx, "temp file sweep failed", slog.Any("error", err))
	}
}
