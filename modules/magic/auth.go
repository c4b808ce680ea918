package magic

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/magicer/handler"
	"github.com/dmitrymomot/magicer/pkg/logger"
)

// Authenticator checks a username and password pair.
type Authenticator interface {
	Verify(username, password string) (bool, error)
}

const authChallenge = `Basic realm="magicer", charset="UTF-8"`

// BasicAuth rejects requests that do not carry valid Basic credentials with 401.
func BasicAuth(auth Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if ok {
				valid, err := auth.Verify(username, password)
				if err == nil && valid {
					next.ServeHTTP(w, r)
					return
				}
			}

			log.WarnContext(r.Context(), "authentication failed",
				logger.Component("auth"),
				slog.Bool("credentials_present", ok),
			)
			w.Header().Set("WWW-Authenticate", authChallenge)
			_ = handler.JSONError(handler.ErrUnauthorized, handler.WithJSONMeta(meta(r))).Render(w, r)
		})
	}
}
