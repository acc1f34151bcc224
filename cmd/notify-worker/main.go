package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tumblera/tumblera-backend/internal/notify"
	"github.com/tumblera/tumblera-backend/pkg/config"
	"github.com/tumblera/tumblera-backend/pkg/emailjs"
	"github.com/tumblera/tumblera-backend/pkg/logger"
	"github.com/tumblera/tumblera-backend/pkg/metrics"
	"github.com/tumblera/tumblera-backend/pkg/pubsub"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "notify-worker"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "notify-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if !cfg.EmailJS.Enabled() {
		requireResource(ctx, logg, "emailjs credentials", errors.New("emailjs is not configured"))
	}
	if !cfg.PubSub.Enabled(cfg.GCP) {
		requireResource(ctx, logg, "pubsub configuration", errors.New("pubsub is not configured"))
	}

	pubsubClient, err := pubsub.NewClient(ctx, cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "failed to close pubsub client", err)
		}
	}()

	subscription := pubsubClient.OrdersSubscription()
	if subscription == nil {
		requireResource(ctx, logg, "orders subscription", errors.New("subscription not configured"))
	}

	sender, err := emailjs.NewClient(cfg.EmailJS, logg)
	requireResource(ctx, logg, "emailjs client", err)

	jobMetrics := metrics.NewEmailJobMetrics(prometheus.DefaultRegisterer)

	service, err := notify.NewService(sender, cfg, logg, jobMetrics)
	requireResource(ctx, logg, "notify service", err)

	consumer, err := notify.NewConsumer(service, subscription, logg)
	requireResource(ctx, logg, "notify consumer", err)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	runCtx = logg.WithFields(runCtx, map[string]any{"env": cfg.App.Env})

	logg.Info(runCtx, "notify worker listening for order events")
	if err := consumer.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(runCtx, "notify worker stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(runCtx, "notify worker shut down gracefully")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err != nil {
		logg.Error(ctx, "resource not working: "+resource, err)
		os.Exit(1)
	}
}
