package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tumblera/tumblera-backend/pkg/logger"
)

const sessionIDHeader = "X-Session-Id"

// SessionID mints the anonymous storefront session token when the client
// does not send one. The cart and checkout are keyed on it, so guests get a
// working cart on their first request; the header echoes the token back for
// the client to persist.
func SessionID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(sessionIDHeader)
			if sessionID == "" || uuid.Validate(sessionID) != nil {
				sessionID = uuid.NewString()
			}

			w.Header().Set(sessionIDHeader, sessionID)

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
