package handler

import (
	"encoding/json"
	"errors"
	"net/http"
)

// JSONResponse is the envelope of every JSON body.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail describes a failure to the client.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type jsonResponse struct {
	status int
	body   JSONResponse
}

func (j jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// JSONOption configures a JSON response.
type JSONOption func(*jsonResponse)

// WithJSONStatus sets the HTTP status code.
func WithJSONStatus(status int) JSONOption {
	return func(r *jsonResponse) {
		r.status = status
	}
}

// WithJSONMeta sets the meta object of the envelope.
func WithJSONMeta(meta map[string]any) JSONOption {
	return func(r *jsonResponse) {
		r.body.Meta = meta
	}
}

// JSON renders v as the data of a 200 response.
func JSON(v any, opts ...JSONOption) Response {
	r := &jsonResponse{status: http.StatusOK, body: JSONResponse{Data: v}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// JSONError renders err. An HTTPError anywhere in err's chain sets the status, code and
// message; anything else becomes a 500 whose text reveals nothing about err.
func JSONError(err error, opts ...JSONOption) Response {
	httpErr := ErrInternalServerError
	_ = errors.As(err, &httpErr)

	r := &jsonResponse{
		status: httpErr.Code,
		body: JSONResponse{
			Error: &ErrorDetail{Code: httpErr.Key, Message: httpErr.Text()},
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
