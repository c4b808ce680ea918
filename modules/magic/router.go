package magic

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/magicer/handler"
	"github.com/dmitrymomot/magicer/pkg/binder"
	"github.com/dmitrymomot/magicer/pkg/clientip"
	"github.com/dmitrymomot/magicer/pkg/httpserver"
	"github.com/dmitrymomot/magicer/pkg/requestid"
)

// ErrMissingDependency is returned by Router when a required option is nil.
var ErrMissingDependency = errors.New("magic: missing router dependency")

// RouterOptions configures the HTTP surface.
type RouterOptions struct {
	Analyzer      Analyzer      // required
	Authenticator Authenticator // required
	// ClientIP resolves the client address for logs. Nil uses RemoteAddr only.
	ClientIP *clientip.Extractor
	Logger   *slog.Logger

	MaxBodySize     int64
	MaxFilenameSize int
	IngestTimeout   time.Duration

	ReadinessChecks []httpserver.Check
}

// Router builds the application router.
//
// Example:
//
//	r, err := magic.Router(magic.RouterOptions{
//	    Analyzer:      svc,
//	    Authenticator: verifier,
//	    Logger:        log,
//	    MaxBodySize:   100 << 20,
//	})
func Router(opts RouterOptions) (chi.Router, error) {
	if opts.Analyzer == nil || opts.Authenticator == nil {
		return nil, ErrMissingDependency
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	ipx := opts.ClientIP
	if ipx == nil {
		var err error
		if ipx, err = clientip.New(); err != nil {
			return nil, err
		}
	}

	h := &handlers{
		analyzer:        opts.Analyzer,
		log:             log,
		maxBodySize:     opts.MaxBodySize,
		maxFilenameSize: opts.MaxFilenameSize,
		ingestTimeout:   opts.IngestTimeout,
	}

	r := chi.NewRouter()
	r.Use(requestid.Middleware, ipx.Middleware, middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = handler.JSONError(handler.ErrNotFound, handler.WithJSONMeta(meta(r))).Render(w, r)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = handler.JSONError(handler.ErrMethodNotAllowed, handler.WithJSONMeta(meta(r))).Render(w, r)
	})

	r.Get("/healthz", httpserver.HealthCheckHandler(log, opts.ReadinessChecks...))

	r.Route("/v1", func(v1 chi.Router) {
		v1.Get("/ping", handler.Wrap(h.ping))

		v1.Group(func(protected chi.Router) {
			protected.Use(BasicAuth(opts.Authenticator, log))

			protected.Post("/magic/content", handler.Wrap(h.analyzeContent,
				handler.WithBinders[handler.Context, contentRequest](binder.Query()),
				handler.WithErrorHandler[handler.Context, contentRequest](h.bindError),
			))
			protected.Post("/magic/path", handler.Wrap(h.analyzePath,
				handler.WithBinders[handler.Context, pathRequest](binder.Query()),
				handler.WithErrorHandler[handler.Context, pathRequest](h.bindError),
			))
		})
	})

	return r, nil
}
