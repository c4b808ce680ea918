package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/magicer/handler"
	"github.com/dmitrymomot/magicer/pkg/binder"
)

type echoRequest struct {
	Name string `query:"name,required"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) handler.JSONResponse {
	t.Helper()
	var body handler.JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWrap(t *testing.T) {
	t.Parallel()

	echo := func(ctx handler.Context, req echoRequest) handler.Response {
		return handler.JSON(map[string]string{"name": req.Name},
			handler.WithJSONMeta(map[string]any{"path": ctx.Request().URL.Path}))
	}

	t.Run("binds and renders", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(echo, handler.WithBinders[handler.Context, echoRequest](binder.Query()))

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/echo?name=gopher", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
		body := decode(t, rec)
		assert.Equal(t, map[string]any{"name": "gopher"}, body.Data)
		assert.Equal(t, "/echo", body.Meta["path"])
		assert.Nil(t, body.Error)
	})

	t.Run("binder failure goes to the error handler", func(t *testing.T) {
		t.Parallel()
		var got error
		h := handler.Wrap(echo,
			handler.WithBinders[handler.Context, echoRequest](binder.Query()),
			handler.WithErrorHandler[handler.Context, echoRequest](func(ctx handler.Context, err error) {
				got = err
				ctx.ResponseWriter().WriteHeader(http.StatusTeapot)
			}),
		)

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/echo", nil))

		assert.Equal(t, http.StatusTeapot, rec.Code)
		assert.ErrorIs(t, got, binder.ErrMissingParam)
	})

	t.Run("not applicable binders are skipped", func(t *testing.T) {
		t.Parallel()
		skip := func(*http.Request, any) error { return binder.ErrBinderNotApplicable }
		h := handler.Wrap(echo, handler.WithBinders[handler.Context, echoRequest](skip, binder.Query()))

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/echo?name=x", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("nil response", func(t *testing.T) {
		t.Parallel()
		h := handler.Wrap(func(handler.Context, echoRequest) handler.Response { return nil })

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		require.NotNil(t, body.Error)
		assert.Equal(t, "internal_error", body.Error.Code)
	})

	t.Run("decorators run outermost first", func(t *testing.T) {
		t.Parallel()
		var order []string
		mark := func(name string) handler.Decorator[handler.Context, echoRequest] {
			return func(next handler.HandlerFunc[handler.Context, echoRequest]) handler.HandlerFunc[handler.Context, echoRequest] {
				return func(ctx handler.Context, req echoRequest) handler.Response {
					order = append(order, name)
					return next(ctx, req)
				}
			}
		}
		h := handler.Wrap(echo, handler.WithDecorators(mark("outer"), mark("inner")))

		h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"outer", "inner"}, order)
	})

	t.Run("context exposes the request context", func(t *testing.T) {
		t.Parallel()
		type key struct{}
		h := handler.Wrap(func(ctx handler.Context, _ echoRequest) handler.Response {
			return handler.JSON(ctx.Value(key{}))
		})

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r = r.WithContext(context.WithValue(r.Context(), key{}, "v"))
		rec := httptest.NewRecorder()
		h(rec, r)
		assert.Equal(t, "v", decode(t, rec).Data)
	})
}

func TestJSONError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"http error", handler.ErrNotFound, http.StatusNotFound, "not_found", "Not Found"},
		{"custom message", handler.ErrForbidden.WithMessage("access denied"), http.StatusForbidden, "forbidden", "access denied"},
		{"wrapped", fmt.Errorf("op: %w", handler.ErrGatewayTimeout), http.StatusGatewayTimeout, "timeout", "Gateway Timeout"},
		{"storage", handler.ErrInsufficientStorage, http.StatusInsufficientStorage, "insufficient_storage", "Insufficient Storage"},
		{"plain error is hidden", errors.New("open /etc/secret: permission denied"), http.StatusInternalServerError, "internal_error", "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			resp := handler.JSONError(tt.err, handler.WithJSONMeta(map[string]any{"request_id": "r1"}))
			require.NoError(t, resp.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))

			assert.Equal(t, tt.status, rec.Code)
			body := decode(t, rec)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.code, body.Error.Code)
			assert.Equal(t, tt.message, body.Error.Message)
			assert.Equal(t, "r1", body.Meta["request_id"])
			assert.Nil(t, body.Data)
			assert.NotContains(t, rec.Body.String(), "/etc/secret")
		})
	}
}

func TestJSONStatus(t *testing.T) {
	t.Parallel()
	rec := httptest.NewRecorder()
	require.NoError(t, handler.JSON("ok", handler.WithJSONStatus(http.StatusAccepted)).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"data":"ok"}`, rec.Body.String())
}
