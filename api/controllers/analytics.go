package controllers

import (
	"net/http"

	"github.com/deliverypro/deliverypro-backend/api/responses"
	analyticssvc "github.com/deliverypro/deliverypro-backend/internal/analytics"
	pkgerrors "github.com/deliverypro/deliverypro-backend/pkg/errors"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
)

// AnalyticsSummary returns the headline numbers for the analytics tab.
func AnalyticsSummary(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service not configured"))
			return
		}

		summary, err := svc.Summary(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// AnalyticsDailyRevenue returns the last seven days of revenue.
func AnalyticsDailyRevenue(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service not configured"))
			return
		}

		points, err := svc.DailyRevenue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"points": points})
	}
}

// AnalyticsHourlyOrders returns today's order volume per hour.
func AnalyticsHourlyOrders(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service not configured"))
			return
		}

		points, err := svc.HourlyOrders(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"points": points})
	}
}

// AnalyticsTopProducts returns the best sellers ranking.
func AnalyticsTopProducts(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service not configured"))
			return
		}

		products, err := svc.TopProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}

// AnalyticsMonthlyRevenue returns the six-month revenue trend.
func AnalyticsMonthlyRevenue(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service not configured"))
			return
		}

		points, err := svc.MonthlyRevenue(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"points": points})
	}
}

// AnalyticsCustomerSegments returns the customer mix breakdown.
func AnalyticsCustomerSegments(svc analyticssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analytics service not configured"))
			return
		}

		segments, err := svc.CustomerSegments(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"segments": segments})
	}
}
