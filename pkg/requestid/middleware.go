package requestid

import (
	"net/http"

	"github.com/google/uuid"
)

const Header = "X-Request-ID"

// Middleware makes sure the request carries a valid ID.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Normalize(r.Header.Get(Header))
		w.Header().Set(Header, id)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), id)))
	})
}

// Normalize returns raw in canonical form when it is a UUID, otherwise a new random UUID.
func Normalize(raw string) string {
	if raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}
