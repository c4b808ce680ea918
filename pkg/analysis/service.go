package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/magicer/pkg/async"
	"github.com/dmitrymomot/magicer/pkg/classifier"
	"github.com/dmitrymomot/magicer/pkg/ingest"
	"github.com/dmitrymomot/magicer/pkg/logger"
	"github.com/dmitrymomot/magicer/pkg/sandbox"
)

const (
	OpAnalyzeContent = "analyze_content"
	OpAnalyzePath    = "analyze_path"

	DefaultClassifyTimeout = 30 * time.Second
	DefaultIngestTimeout   = 60 * time.Second
)

// Result is the outcome of a successful analysis.
type Result struct {
	MIMEType    string
	Description string
	Encoding    string
	AnalyzedAt  time.Time
}

// Service runs the analysis use cases. It is safe for concurrent use.
type Service struct {
	ingester   *ingest.Ingester
	resolver   *sandbox.Resolver
	classifier classifier.Classifier

	classifyTimeout time.Duration
	ingestTimeout   time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClassifyTimeout bounds a single classifier call.
func WithClassifyTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.classifyTimeout = d
		}
	}
}

// WithIngestTimeout bounds reading the request body. When it expires a Read blocked in src is
// interrupted: through SetReadDeadline when src has one, otherwise by closing src.
func WithIngestTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.ingestTimeout = d
		}
	}
}

// WithLogger sets the logger. Records are tagged with component=analysis.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for Result.AnalyzedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the collaborators together.
func NewService(in *ingest.Ingester, res *sandbox.Resolver, cls classifier.Classifier, opts ...Option) *Service {
	s := &Service{
		ingester:        in,
		resolver:        res,
		classifier:      cls,
		classifyTimeout: DefaultClassifyTimeout,
		ingestTimeout:   DefaultIngestTimeout,
		logger:          logger.Discard(),
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component("analysis"))
	return s
}

// AnalyzeContent ingests src and classifies it. declaredLength is the Content-Length of the
// request, or -1 when unknown. The ingested payload is released before returning, including
// on timeout, where the backing file is unlinked at once and unmapped once the classifier
// returns.
func (s *Service) AnalyzeContent(ctx context.Context, src io.Reader, declaredLength int64, chunked bool, filenameHint string) (Result, error) {
	const op = OpAnalyzeContent
	start := time.Now()

	ictx, cancel := context.WithTimeout(ctx, s.ingestTimeout)
	stop := context.AfterFunc(ictx, func() { interruptSource(src) })
	payload, err := s.ingester.Ingest(ictx, src, declaredLength, chunked)
	stop()
	if err != nil && errors.Is(ictx.Err(), context.DeadlineExceeded) && !errors.Is(err, context.DeadlineExceeded) {
		// The read was cut short by interruptSource; report the deadline, not the side effect.
		err = fmt.Errorf("%w: %w", context.DeadlineExceeded, err)
	}
	cancel()
	if err != nil {
		e := ingestError(op, err)
		s.logFailure(ctx, e)
		return Result{}, e
	}

	size := int64(payload.Len())
	s.logger.DebugContext(ctx, "payload ingested",
		logger.Op(op),
		logger.Filename(filenameHint),
		logger.Size(size),
		logger.Strategy(string(payload.Strategy())),
	)

	cctx, cancelClassify := context.WithTimeout(ctx, s.classifyTimeout)
	defer cancelClassify()

	fut := async.Async(cctx, payload, func(_ context.Context, p *ingest.Payload) (classifier.Result, error) {
		return s.classifier.ClassifyBytes(p.Bytes(), filenameHint)
	})

	if !s.wait(cctx, fut) {
		s.abandon(ctx, payload, fut)
		e := classifyError(op, cctx.Err())
		s.logFailure(ctx, e)
		return Result{}, e
	}

	res, err := fut.Await()
	s.release(ctx, payload)
	if err != nil {
		e := classifyError(op, err)
		s.logFailure(ctx, e)
		return Result{}, e
	}

	out := s.result(res)
	s.logger.InfoContext(ctx, "content analyzed",
		logger.Op(op),
		logger.Filename(filenameHint),
		logger.MIMEType(out.MIMEType),
		logger.Size(size),
		logger.Duration(time.Since(start)),
	)
	return out, nil
}

// AnalyzePath confines token to the sandbox root and classifies the file it names.
func (s *Service) AnalyzePath(ctx context.Context, token string) (Result, error) {
	const op = OpAnalyzePath
	start := time.Now()

	path, err := s.resolver.Resolve(token)
	if err != nil {
		e := sandboxError(op, err)
		s.logRejection(ctx, err)
		s.logFailure(ctx, e)
		return Result{}, e
	}

	cctx, cancel := context.WithTimeout(ctx, s.classifyTimeout)
	defer cancel()

	fut := async.Async(cctx, path, func(_ context.Context, p string) (classifier.Result, error) {
		return s.classifier.ClassifyPath(p)
	})

	if !s.wait(cctx, fut) {
		e := classifyError(op, cctx.Err())
		s.logFailure(ctx, e)
		return Result{}, e
	}

	res, err := fut.Await()
	if err != nil {
		e := classifyError(op, err)
		s.logFailure(ctx, e)
		return Result{}, e
	}

	out := s.result(res)
	s.logger.InfoContext(ctx, "path analyzed",
		logger.Op(op),
		logger.Path(token),
		logger.MIMEType(out.MIMEType),
		logger.Duration(time.Since(start)),
	)
	return out, nil
}

// wait reports whether fut completed before ctx was done. A future that finishes in the same
// instant as the deadline counts as completed.
func (s *Service) wait(ctx context.Context, fut *async.Future[classifier.Result]) bool {
	_, _ = fut.AwaitContext(ctx)
	return fut.IsComplete()
}

// abandon unlinks the payload file now and releases the mapping once the classifier goroutine
// has returned, since it may still be reading from it.
func (s *Service) abandon(ctx context.Context, payload *ingest.Payload, fut *async.Future[classifier.Result]) {
	if err := payload.Discard(); err != nil {
		s.logger.ErrorContext(ctx, "failed to remove payload file", logger.Path(payload.Path()), logger.Error(err))
	}

	log := s.logger
	go func() {
		<-fut.Done()
		if err := payload.Close(); err != nil {
			log.Error("failed to release abandoned payload", logger.Path(payload.Path()), logger.Error(err))
		}
	}()
}

func (s *Service) release(ctx context.Context, payload *ingest.Payload) {
	if err := payload.Close(); err != nil {
		s.logger.ErrorContext(ctx, "failed to release payload", logger.Path(payload.Path()), logger.Error(err))
	}
}

func (s *Service) result(r classifier.Result) Result {
	return Result{
		MIMEType:    r.MIMEType,
		Description: r.Description,
		Encoding:    r.Encoding,
		AnalyzedAt:  s.now().UTC(),
	}
}

// logRejection records traversal-shaped tokens and escapes as attack signals.
func (s *Service) logRejection(ctx context.Context, err error) {
	if reason, ok := sandbox.RejectionReason(err); ok && reason.IsTraversal() {
		s.logger.WarnContext(ctx, "path traversal attempt rejected", logger.Reason(string(reason)))
		return
	}
	if errors.Is(err, sandbox.ErrOutsideSandbox) {
		s.logger.WarnContext(ctx, "sandbox escape attempt rejected", logger.Reason("outside_sandbox"))
	}
}

func (s *Service) logFailure(ctx context.Context, e *Error) {
	attrs := []slog.Attr{logger.Op(e.Op), slog.String("kind", e.Kind.String()), logger.Error(e.Err)}
	switch e.Kind {
	case KindInternal, KindInsufficientStorage:
		s.logger.LogAttrs(ctx, slog.LevelError, "analysis failed", attrs...)
	case KindForbidden, KindTimeout, KindAnalysisFailed:
		s.logger.LogAttrs(ctx, slog.LevelWarn, "analysis failed", attrs...)
	default:
		s.logger.LogAttrs(ctx, slog.LevelDebug, "analysis rejected", attrs...)
	}
}

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

// interruptSource unblocks a Read in progress on src. Sources that support neither deadlines
// nor Close are only stopped between reads.
func interruptSource(src io.Reader) {
	if d, ok := src.(readDeadliner); ok && d.SetReadDeadline(time.Now()) == nil {
		return
	}
	if c, ok := src.(io.Closer); ok {
		_ = c.Close()
	}
}
