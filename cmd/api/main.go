package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tumblera/tumblera-backend/api/routes"
	authsvc "github.com/tumblera/tumblera-backend/internal/auth"
	cartsvc "github.com/tumblera/tumblera-backend/internal/cart"
	checkoutsvc "github.com/tumblera/tumblera-backend/internal/checkout"
	"github.com/tumblera/tumblera-backend/internal/notify"
	orderssvc "github.com/tumblera/tumblera-backend/internal/orders"
	profilessvc "github.com/tumblera/tumblera-backend/internal/profiles"
	"github.com/tumblera/tumblera-backend/pkg/auth/session"
	"github.com/tumblera/tumblera-backend/pkg/config"
	"github.com/tumblera/tumblera-backend/pkg/db"
	"github.com/tumblera/tumblera-backend/pkg/kvstore"
	"github.com/tumblera/tumblera-backend/pkg/logger"
	"github.com/tumblera/tumblera-backend/pkg/metrics"
	"github.com/tumblera/tumblera-backend/pkg/migrate"
	"github.com/tumblera/tumblera-backend/pkg/pubsub"
	"github.com/tumblera/tumblera-backend/pkg/redis"
	"github.com/tumblera/tumblera-backend/pkg/supabase"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	supaClient, err := supabase.NewClient(ctx, cfg.Supabase, logg)
	requireResource(ctx, logg, "supabase", err)

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	requireResource(ctx, logg, "session manager", err)

	kv := kvstore.New(dbClient.DB())

	cartService, err := cartsvc.NewService(kv, cfg.Pricing, logg)
	requireResource(ctx, logg, "cart service", err)

	var announcer notify.Announcer
	if cfg.PubSub.Enabled(cfg.GCP) {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
		requireResource(ctx, logg, "pubsub", err)
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(ctx, "error closing pubsub", err)
			}
		}()

		publisher, err := notify.NewPublisher(pubsubClient, logg)
		requireResource(ctx, logg, "order event publisher", err)
		announcer = publisher
	} else {
		logg.Warn(ctx, "pubsub not configured, order emails disabled")
	}

	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	checkoutService, err := checkoutsvc.NewService(cartService, supaClient, redisClient, announcer, cfg.Pricing, logg, checkoutMetrics)
	requireResource(ctx, logg, "checkout service", err)

	ordersService, err := orderssvc.NewService(supaClient, logg)
	requireResource(ctx, logg, "orders service", err)

	profilesService, err := profilessvc.NewService(kv, supaClient, logg)
	requireResource(ctx, logg, "profiles service", err)

	authService, err := authsvc.NewService(supaClient, sessionManager, cfg.JWT, cfg.Seller, logg)
	requireResource(ctx, logg, "auth service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Sessions: sessionManager,
			Auth:     authService,
			Cart:     cartService,
			Checkout: checkoutService,
			Orders:   ordersService,
			Profiles: profilesService,
			Uploader: supaClient,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err != nil {
		logg.Error(ctx, "resource not working: "+resource, err)
		os.Exit(1)
	}
}
