package clientip

import "net/http"

// Middleware stores the client address in the request context.
func (e *Extractor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), e.FromRequest(r))))
	})
}
