// Package handler adapts typed handler functions to net/http.
//
// A HandlerFunc receives a Context and a request value R that binders have populated from the
// *http.Request, and returns a Response to render:
//
//	type pathRequest struct {
//	    Path string `query:"path,required"`
//	}
//
//	func analyzePath(ctx handler.Context, req pathRequest) handler.Response {
//	    ...
//	    return handler.JSON(result, handler.WithJSONMeta(meta))
//	}
//
//	r.Post("/path", handler.Wrap(analyzePath,
//	    handler.WithBinders[handler.Context, pathRequest](binder.Query()),
//	))
//
// JSON responses use one envelope: {"data": ..., "meta": ...} on success and
// {"error": {"code", "message"}, "meta": ...} on failure. Only HTTPError values reach clients
// verbatim; any other error renders as a generic 500.
package handler
