package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deliverypro/deliverypro-backend/api/controllers"
	"github.com/deliverypro/deliverypro-backend/api/middleware"
	"github.com/deliverypro/deliverypro-backend/internal/analytics"
	"github.com/deliverypro/deliverypro-backend/internal/auth"
	"github.com/deliverypro/deliverypro-backend/internal/catalog"
	"github.com/deliverypro/deliverypro-backend/internal/chat"
	"github.com/deliverypro/deliverypro-backend/internal/images"
	"github.com/deliverypro/deliverypro-backend/internal/notifications"
	"github.com/deliverypro/deliverypro-backend/internal/orders"
	"github.com/deliverypro/deliverypro-backend/internal/restaurant"
	"github.com/deliverypro/deliverypro-backend/internal/sessions"
	"github.com/deliverypro/deliverypro-backend/pkg/config"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	"github.com/deliverypro/deliverypro-backend/pkg/metrics"
	pkgredis "github.com/deliverypro/deliverypro-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          controllers.Pinger
	Redis       *pkgredis.Client
	Registry    *sessions.Registry
	HTTPMetrics *metrics.HTTPMetrics
	PromReg     *prometheus.Registry

	Auth          auth.Service
	Catalog       catalog.Service
	Orders        orders.Service
	Analytics     analytics.Service
	Chat          chat.Service
	Restaurant    restaurant.Service
	Images        *images.Client
	Notifications *notifications.Feed
}

// NewRouter assembles the full HTTP surface: health probes, metrics, the
// public storefront, session-scoped cart and checkout, and the authenticated
// dashboard.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config
	logg := d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    d.DB,
			"redis": d.Redis,
		}))
	})

	if d.PromReg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.PromReg, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(d.Auth, logg))
			r.Post("/register", controllers.AuthRegister(d.Auth, logg))
			r.Post("/forgot-password", controllers.AuthForgotPassword(d.Auth, logg))
			r.Post("/logout", controllers.AuthLogout(d.Auth, logg))
		})

		// Public storefront surface, no session required.
		r.Get("/storefront/menu", controllers.StorefrontMenu(d.Catalog, logg))
		r.Get("/storefront/restaurant", controllers.StorefrontRestaurant(d.Restaurant, logg))
		r.Post("/session", controllers.SessionStart(d.Registry, logg))

		// Session-scoped storefront surface.
		r.Group(func(r chi.Router) {
			r.Use(middleware.StorefrontSession(d.Registry, logg))

			r.Delete("/session", controllers.SessionEnd(d.Registry, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(logg))
				r.Delete("/", controllers.CartClear(logg))
				r.Post("/items", controllers.CartAddItem(d.Catalog, logg))
				r.Put("/items/{productID}", controllers.CartUpdateQuantity(logg))
				r.Delete("/items/{productID}", controllers.CartRemoveItem(logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.CheckoutGet(logg))
				r.Get("/validate", controllers.CheckoutValidateStep(logg))
				r.Put("/customer", controllers.CheckoutSetCustomer(logg))
				r.Put("/address", controllers.CheckoutSetAddress(logg))
				r.Put("/payment", controllers.CheckoutSetPayment(logg))
				r.Put("/delivery-option", controllers.CheckoutSetDeliveryOption(logg))
				r.Put("/notes", controllers.CheckoutSetNotes(logg))
				r.Post("/next", controllers.CheckoutNext(logg))
				r.Post("/prev", controllers.CheckoutPrev(logg))
				r.Post("/jump", controllers.CheckoutJump(logg))
				r.With(middleware.Idempotency(d.Redis, logg)).
					Post("/submit", controllers.CheckoutSubmit(d.Registry, logg))
			})
		})

		// Dashboard surface, bearer token required.
		r.Group(func(r chi.Router) {
			r.Use(middleware.DashboardAuth(d.Auth, logg))

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(d.Orders, logg))
				r.Get("/counts", controllers.OrdersCounts(d.Orders, logg))
				r.Get("/{orderID}", controllers.OrdersGet(d.Orders, logg))
				r.Put("/{orderID}/status", controllers.OrdersUpdateStatus(d.Orders, logg))
				r.Post("/{orderID}/cancel", controllers.OrdersCancel(d.Orders, logg))
			})

			r.Route("/menu", func(r chi.Router) {
				r.Get("/", controllers.MenuList(d.Catalog, logg))
				r.Post("/", controllers.MenuCreate(d.Catalog, logg))
				r.Get("/counts", controllers.MenuCounts(d.Catalog, logg))
				r.Post("/generate-image", controllers.MenuGenerateImage(d.Images, logg))
				r.Get("/{productID}", controllers.MenuGet(d.Catalog, logg))
				r.Put("/{productID}", controllers.MenuUpdate(d.Catalog, logg))
				r.Delete("/{productID}", controllers.MenuDelete(d.Catalog, logg))
				r.Post("/{productID}/toggle", controllers.MenuToggleAvailability(d.Catalog, logg))
			})

			r.Route("/analytics", func(r chi.Router) {
				r.Get("/summary", controllers.AnalyticsSummary(d.Analytics, logg))
				r.Get("/daily-revenue", controllers.AnalyticsDailyRevenue(d.Analytics, logg))
				r.Get("/hourly-orders", controllers.AnalyticsHourlyOrders(d.Analytics, logg))
				r.Get("/top-products", controllers.AnalyticsTopProducts(d.Analytics, logg))
				r.Get("/monthly-revenue", controllers.AnalyticsMonthlyRevenue(d.Analytics, logg))
				r.Get("/customer-segments", controllers.AnalyticsCustomerSegments(d.Analytics, logg))
			})

			r.Route("/chat", func(r chi.Router) {
				r.Get("/", controllers.ChatList(d.Chat, logg))
				r.Post("/", controllers.ChatStart(d.Chat, logg))
				r.Get("/stats", controllers.ChatStats(d.Chat, logg))
				r.Get("/{conversationID}", controllers.ChatGet(d.Chat, logg))
				r.Post("/{conversationID}/messages", controllers.ChatSendMessage(d.Chat, logg))
				r.Post("/{conversationID}/complete", controllers.ChatComplete(d.Chat, logg))
			})

			r.Route("/restaurant", func(r chi.Router) {
				r.Get("/", controllers.RestaurantGet(d.Restaurant, logg))
				r.Put("/", controllers.RestaurantUpdate(d.Restaurant, logg))
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", controllers.NotificationsList(d.Notifications, logg))
				r.Get("/unread-count", controllers.NotificationsUnreadCount(d.Notifications, logg))
				r.Post("/read-all", controllers.NotificationsMarkAllRead(d.Notifications, logg))
				r.Post("/{notificationID}/read", controllers.NotificationsMarkRead(d.Notifications, logg))
			})
		})
	})

	return r
}
