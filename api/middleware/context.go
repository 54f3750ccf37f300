package middleware

import (
	"context"

	"github.com/deliverypro/deliverypro-backend/internal/auth"
	"github.com/deliverypro/deliverypro-backend/internal/sessions"
)

type sessionCtxKey struct{}
type claimsCtxKey struct{}

// SessionFromContext returns the storefront session attached by StorefrontSession.
func SessionFromContext(ctx context.Context) (*sessions.Session, bool) {
	session, ok := ctx.Value(sessionCtxKey{}).(*sessions.Session)
	return session, ok
}

// ClaimsFromContext returns the dashboard JWT claims attached by DashboardAuth.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsCtxKey{}).(*auth.Claims)
	return claims, ok
}

func withSession(ctx context.Context, session *sessions.Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, session)
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsCtxKey{}, claims)
}
