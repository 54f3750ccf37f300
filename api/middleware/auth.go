package middleware

import (
	"net/http"
	"strings"

	"github.com/deliverypro/deliverypro-backend/api/responses"
	"github.com/deliverypro/deliverypro-backend/internal/auth"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
)

// DashboardAuth validates the Bearer token on dashboard routes and attaches
// the session claims to the request context.
func DashboardAuth(authService auth.Service, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := bearerToken(r)
			if token == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "bearer token required"))
				return
			}

			claims, err := authService.Validate(ctx, token)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			if logg != nil {
				ctx = logg.WithField(ctx, "user", claims.Email)
			}
			next.ServeHTTP(w, r.WithContext(withClaims(ctx, claims)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
