package magic

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrymomot/magicer/handler"
	"github.com/dmitrymomot/magicer/pkg/analysis"
	"github.com/dmitrymomot/magicer/pkg/binder"
	"github.com/dmitrymomot/magicer/pkg/logger"
	"github.com/dmitrymomot/magicer/pkg/requestid"
)

// Analyzer classifies uploaded content and sandboxed files.
type Analyzer interface {
	AnalyzeContent(ctx context.Context, src io.Reader, declaredLength int64, chunked bool, filenameHint string) (analysis.Result, error)
	AnalyzePath(ctx context.Context, token string) (analysis.Result, error)
}

type contentRequest struct {
	Filename string `query:"filename,required"`
}

type pathRequest struct {
	Filename string `query:"filename,required"`
	Path     string `query:"path,required"`
}

type pingResponse struct {
	Message string `json:"message"`
}

type resultBody struct {
	MIMEType    string `json:"mime_type"`
	Description string `json:"description"`
	Encoding    string `json:"encoding,omitempty"`
}

type magicResponse struct {
	Filename   string     `json:"filename"`
	Result     resultBody `json:"result"`
	AnalyzedAt time.Time  `json:"analyzed_at"`
}

func newMagicResponse(filename string, res analysis.Result) magicResponse {
	return magicResponse{
		Filename: filename,
		Result: resultBody{
			MIMEType:    res.MIMEType,
			Description: res.Description,
			Encoding:    res.Encoding,
		},
		AnalyzedAt: res.AnalyzedAt.UTC(),
	}
}

func meta(r *http.Request) map[string]any {
	return map[string]any{"request_id": requestid.FromContext(r.Context())}
}

type handlers struct {
	analyzer        Analyzer
	log             *slog.Logger
	maxBodySize     int64
	maxFilenameSize int
	ingestTimeout   time.Duration
}

func (h *handlers) ping(ctx handler.Context, _ struct{}) handler.Response {
	return handler.JSON(pingResponse{Message: "pong"}, handler.WithJSONMeta(meta(ctx.Request())))
}

func (h *handlers) analyzeContent(ctx handler.Context, req contentRequest) handler.Response {
	r := ctx.Request()

	name, err := NormalizeFilename(req.Filename, h.maxFilenameSize)
	if err != nil {
		return h.invalidFilename(r, err)
	}

	if h.maxBodySize > 0 && r.ContentLength > h.maxBodySize {
		return handler.JSONError(handler.ErrRequestEntityTooLarge, handler.WithJSONMeta(meta(r)))
	}

	rc := http.NewResponseController(ctx.ResponseWriter())
	if h.ingestTimeout > 0 {
		// Not every ResponseWriter supports deadlines; the service's own deadline still applies.
		_ = rc.SetReadDeadline(time.Now().Add(h.ingestTimeout))
	}

	body := requestBody{ReadCloser: r.Body, rc: rc}
	if h.maxBodySize > 0 {
		body.ReadCloser = http.MaxBytesReader(ctx.ResponseWriter(), r.Body, h.maxBodySize)
	}
	chunked := slices.Contains(r.TransferEncoding, "chunked")

	res, err := h.analyzer.AnalyzeContent(ctx, body, r.ContentLength, chunked, name)
	if err != nil {
		return handler.JSONError(httpError(err), handler.WithJSONMeta(meta(r)))
	}
	return handler.JSON(newMagicResponse(name, res), handler.WithJSONMeta(meta(r)))
}

// requestBody lets the analysis service interrupt a stalled upload through the connection's
// read deadline, falling back to closing the body.
type requestBody struct {
	io.ReadCloser
	rc *http.ResponseController
}

func (b requestBody) SetReadDeadline(t time.Time) error {
	return b.rc.SetReadDeadline(t)
}

func (h *handlers) analyzePath(ctx handler.Context, req pathRequest) handler.Response {
	r := ctx.Request()

	name, err := NormalizeFilename(req.Filename, h.maxFilenameSize)
	if err != nil {
		return h.invalidFilename(r, err)
	}

	res, err := h.analyzer.AnalyzePath(ctx, req.Path)
	if err != nil {
		return handler.JSONError(httpError(err), handler.WithJSONMeta(meta(r)))
	}
	return handler.JSON(newMagicResponse(name, res), handler.WithJSONMeta(meta(r)))
}

func (h *handlers) invalidFilename(r *http.Request, err error) handler.Response {
	h.log.DebugContext(r.Context(), "filename hint rejected", logger.Error(err))
	return handler.JSONError(
		handler.ErrBadRequest.WithMessage("invalid filename: "+err.Error()),
		handler.WithJSONMeta(meta(r)),
	)
}

// bindError renders query binding failures. Binder messages name the parameter, never its value.
func (h *handlers) bindError(ctx handler.Context, err error) {
	r := ctx.Request()
	httpErr := handler.ErrInternalServerError
	if errors.Is(err, binder.ErrMissingParam) || errors.Is(err, binder.ErrInvalidQuery) {
		httpErr = handler.ErrBadRequest.WithMessage(err.Error())
	} else {
		h.log.ErrorContext(r.Context(), "request handling failed", logger.Error(err))
	}
	_ = handler.JSONError(httpErr, handler.WithJSONMeta(meta(r))).Render(ctx.ResponseWriter(), r)
}
