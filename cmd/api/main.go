package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/deliverypro/deliverypro-backend/api/routes"
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
	"github.com/deliverypro/deliverypro-backend/pkg/db"
	"github.com/deliverypro/deliverypro-backend/pkg/db/models"
	"github.com/deliverypro/deliverypro-backend/pkg/logger"
	"github.com/deliverypro/deliverypro-backend/pkg/metrics"
	"github.com/deliverypro/deliverypro-backend/pkg/redis"
	"github.com/deliverypro/deliverypro-backend/pkg/seed"
)

const (
	shutdownTimeout      = 15 * time.Second
	sessionSweepInterval = 10 * time.Minute
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if cfg.FeatureFlags.AutoMigrate {
		if err := dbClient.DB().AutoMigrate(
			&models.Product{},
			&models.Order{},
			&models.OrderItem{},
			&models.Conversation{},
			&models.ChatMessage{},
		); err != nil {
			logg.Error(context.Background(), "failed to run migrations", err)
			os.Exit(1)
		}
	}

	if cfg.FeatureFlags.SeedDemoData {
		if err := seed.Run(context.Background(), dbClient.DB(), logg); err != nil {
			logg.Error(context.Background(), "failed to seed demo data", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(promReg)

	feed, err := notifications.NewFeed(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notification feed", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		logg,
		feed,
		cfg.Restaurant.DeliveryTime,
		cfg.Checkout.SubmitLatency,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	registry, err := sessions.NewRegistry(redisClient, cfg.Session.TTL, cfg.Checkout.DeliveryFeeCents, cfg.Checkout.FreeDeliveryCents, ordersService)
	if err != nil {
		logg.Error(context.Background(), "failed to create session registry", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(cfg.JWT, redisClient, logg, cfg.Checkout.AuthLatency)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(analytics.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	chatService, err := chat.NewService(chat.NewRepository(dbClient.DB()), logg, cfg.Checkout.ChatReplyLatency)
	if err != nil {
		logg.Error(context.Background(), "failed to create chat service", err)
		os.Exit(1)
	}

	restaurantService, err := restaurant.NewService(cfg.Restaurant, cfg.Checkout, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create restaurant service", err)
		os.Exit(1)
	}

	imageClient, err := images.NewClient(cfg.ImageGen, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create image client", err)
		os.Exit(1)
	}

	router := routes.NewRouter(routes.Deps{
		Config:        cfg,
		Logger:        logg,
		DB:            dbClient,
		Redis:         redisClient,
		Registry:      registry,
		HTTPMetrics:   httpMetrics,
		PromReg:       promReg,
		Auth:          authService,
		Catalog:       catalogService,
		Orders:        ordersService,
		Analytics:     analyticsService,
		Chat:          chatService,
		Restaurant:    restaurantService,
		Images:        imageClient,
		Notifications: feed,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		ticker := time.NewTicker(sessionSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := registry.Sweep(); removed > 0 {
					swept := logg.WithField(context.Background(), "removed", removed)
					logg.Info(swept, "swept expired storefront sessions")
				}
			}
		}
	}()

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	startCtx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(startCtx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(startCtx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(startCtx, "errors during shutdown", closeErr)
		os.Exit(1)
	}
	logg.Info(startCtx, "api server stopped")
}
