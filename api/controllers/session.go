package controllers

import (
	"net/http"

	"github.com/deliverypro/deliverypro-backend/api/middleware"
	"github.com/deliverypro/deliverypro-backend/api/responses"
	"github.com/deliverypro/deliverypro-backend/internal/sessions"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
)

// SessionStart opens a new storefront session and hands the token back both
// in the body and in the session header so either can be used.
func SessionStart(registry *sessions.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session registry not configured"))
			return
		}

		session, err := registry.Start(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set(middleware.SessionTokenHeader, session.Token)
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"token":     session.Token,
			"createdAt": session.CreatedAt,
		})
	}
}

// SessionEnd discards the current storefront session.
func SessionEnd(registry *sessions.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if registry == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session registry not configured"))
			return
		}

		session, ok := middleware.SessionFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session token required"))
			return
		}

		if err := registry.End(r.Context(), session.Token); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "session ended"})
	}
}
