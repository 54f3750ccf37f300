package middleware

import (
	"net/http"

	"github.com/deliverypro/deliverypro-backend/api/responses"
	"github.com/deliverypro/deliverypro-backend/internal/sessions"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
)

// SessionTokenHeader carries the storefront session token.
const SessionTokenHeader = "X-Session-Token"

// StorefrontSession resolves the session token into the cart/checkout pair
// and attaches it to the request context. Requests without a valid token are
// rejected; the storefront starts a session first.
func StorefrontSession(registry *sessions.Registry, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			session, err := registry.Get(ctx, r.Header.Get(SessionTokenHeader))
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			if logg != nil {
				ctx = logg.WithSessionID(ctx, session.Token)
			}
			next.ServeHTTP(w, r.WithContext(withSession(ctx, session)))
		})
	}
}
