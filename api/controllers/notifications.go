package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/deliverypro/deliverypro-backend/api/responses"
	"github.com/deliverypro/deliverypro-backend/internal/notifications"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
)

// NotificationsList returns the dashboard notification feed, newest first.
func NotificationsList(feed *notifications.Feed, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if feed == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification feed not configured"))
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"notifications": feed.List(r.Context()),
			"unread":        feed.UnreadCount(r.Context()),
		})
	}
}

// NotificationsUnreadCount returns only the unread counter for the bell badge.
func NotificationsUnreadCount(feed *notifications.Feed, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if feed == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification feed not configured"))
			return
		}
		responses.WriteSuccess(w, map[string]int{"unread": feed.UnreadCount(r.Context())})
	}
}

// NotificationsMarkRead marks a single notification as read.
func NotificationsMarkRead(feed *notifications.Feed, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if feed == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification feed not configured"))
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "notificationID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid notification id"))
			return
		}

		if err := feed.MarkRead(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"message": "notification marked read"})
	}
}

// NotificationsMarkAllRead clears the unread counter.
func NotificationsMarkAllRead(feed *notifications.Feed, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if feed == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notification feed not configured"))
			return
		}

		feed.MarkAllRead(r.Context())
		responses.WriteSuccess(w, map[string]string{"message": "all notifications marked read"})
	}
}
