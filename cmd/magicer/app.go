package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/magicer/modules/magic"
	"github.com/dmitrymomot/magicer/pkg/analysis"
	"github.com/dmitrymomot/magicer/pkg/classifier"
	"github.com/dmitrymomot/magicer/pkg/clientip"
	"github.com/dmitrymomot/magicer/pkg/config"
	"github.com/dmitrymomot/magicer/pkg/credential"
	"github.com/dmitrymomot/magicer/pkg/httpserver"
	"github.com/dmitrymomot/magicer/pkg/ingest"
	"github.com/dmitrymomot/magicer/pkg/logger"
	"github.com/dmitrymomot/magicer/pkg/requestid"
	"github.com/dmitrymomot/magicer/pkg/sandbox"
	"github.com/dmitrymomot/magicer/pkg/tempfile"
)

type app struct {
	cfg     config.Config
	log     *slog.Logger
	router  http.Handler
	server  *httpserver.Server
	sweeper *tempfile.Sweeper
}

func newLogger(cfg config.LogConfig, out io.Writer) (*slog.Logger, error) {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(out),
		logger.WithService("magicer", version),
		logger.WithContextString("request_id", requestid.FromContext),
		logger.WithContextString("client_ip", clientip.FromContext),
	), nil
}

func newSweeper(cfg config.AnalysisConfig, log *slog.Logger) *tempfile.Sweeper {
	return tempfile.NewSweeper(cfg.WorkDir,
		tempfile.WithMaxAge(cfg.TempMaxAge),
		tempfile.WithInterval(cfg.SweepInterval),
		tempfile.WithLogger(log.With(logger.Component("sweeper"))),
	)
}

// newApp wires every component from cfg.
func newApp(cfg config.Config, logOut io.Writer) (*app, error) {
	log, err := newLogger(cfg.Log, logOut)
	if err != nil {
		return nil, err
	}

	files, err := tempfile.NewManager(cfg.Analysis.WorkDir)
	if err != nil {
		return nil, err
	}
	in := ingest.New(files, ingest.Config{
		MemoryThreshold: cfg.Analysis.MemoryThreshold.Int64(),
		BufferSize:      int(cfg.Analysis.BufferSize),
		MinFreeSpace:    uint64(cfg.Analysis.MinFreeSpace),
		MmapFallback:    cfg.Analysis.MmapFallback,
	})

	res, err := sandbox.NewResolver(cfg.Sandbox.Root)
	if err != nil {
		return nil, err
	}

	verifier, err := credential.NewVerifier(cfg.Auth.Username, cfg.Auth.Password)
	if err != nil {
		return nil, err
	}

	ipx, err := clientip.New(cfg.TrustedProxies...)
	if err != nil {
		return nil, err
	}

	svc := analysis.NewService(in, res, classifier.NewMimetype(),
		analysis.WithClassifyTimeout(cfg.Analysis.ClassifyTimeout),
		analysis.WithIngestTimeout(cfg.Analysis.IngestTimeout),
		analysis.WithLogger(log.With(logger.Component("analysis"))),
	)

	router, err := magic.Router(magic.RouterOptions{
		Analyzer:        svc,
		Authenticator:   verifier,
		ClientIP:        ipx,
		Logger:          log,
		MaxBodySize:     cfg.Limits.MaxBodySize.Int64(),
		MaxFilenameSize: cfg.Limits.MaxFilenameSize,
		IngestTimeout:   cfg.Analysis.IngestTimeout,
		ReadinessChecks: []httpserver.Check{
			dirCheck(files.Dir()),
			dirCheck(res.Root()),
			spaceCheck(files.Dir(), uint64(cfg.Analysis.MinFreeSpace)),
		},
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:     cfg,
		log:     log,
		router:  router,
		server:  httpserver.NewFromConfig(cfg.Server, httpserver.WithLogger(log)),
		sweeper: newSweeper(cfg.Analysis, log),
	}, nil
}

// run serves until ctx is cancelled or either the server or the sweeper fails.
func (a *app) run(ctx context.Context) error {
	a.log.InfoContext(ctx, "starting magicer",
		slog.String("addr", a.cfg.Server.Addr),
		logger.Path(a.cfg.Sandbox.Root),
		slog.String("work_dir", a.cfg.Analysis.WorkDir),
		slog.String("memory_threshold", humanize.IBytes(uint64(a.cfg.Analysis.MemoryThreshold))),
		slog.Any("auth", a.cfg.Auth),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.server.Run(ctx, a.router) })
	g.Go(func() error { return a.sweeper.Run(ctx) })

	err := g.Wait()
	a.log.Info("magicer stopped")
	return err
}

func dirCheck(dir string) httpserver.Check {
	return func(context.Context) error {
		fi, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !fi.IsDir() {
			return fmt.Errorf("%s is not a directory", dir)
		}
		return nil
	}
}

func spaceCheck(dir string, minFree uint64) httpserver.Check {
	return func(context.Context) error {
		free, err := ingest.AvailableSpace(dir)
		if err != nil {
			return err
		}
		if free < minFree {
			return fmt.Errorf("%s free in %s, need %s", humanize.IBytes(free), dir, humanize.IBytes(minFree))
		}
		return nil
	}
}
