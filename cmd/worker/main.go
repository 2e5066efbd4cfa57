package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/config"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/notifier"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/repository/postgres"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/worker"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/logger"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/messaging"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/messaging/redis"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to load configuration")
	}

	lg := logger.NewLogger(nil)
	m := metrics.NewMetrics("ks_assistant", "worker")

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		lg.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	eventRepo := postgres.NewEventRepository(db, m)
	guildRepo := postgres.NewGuildSettingsRepository(db, m)

	sink, closeSink, err := buildSink(cfg, m)
	if err != nil {
		lg.Fatal(err, "failed to build notification sink")
	}
	defer closeSink()

	dispatcher := worker.NewReminderWorker(eventRepo, guildRepo, sink,
		worker.ReminderConfig{
			PollInterval:        cfg.Scheduler.PollInterval,
			GracePeriod:         cfg.Scheduler.GracePeriod,
			SendTimeout:         cfg.Scheduler.SendTimeout,
			DestinationCacheTTL: cfg.Scheduler.DestinationCacheTTL,
		}, lg.WithFields(map[string]interface{}{"component": "dispatcher"}), m)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		dispatcher.Start(ctx)
	}()

	var digestCron *cron.Cron
	if cfg.Digest.Enabled {
		digest := worker.NewDigestWorker(eventRepo, guildRepo, sink,
			lg.WithFields(map[string]interface{}{"component": "digest"}), m)
		digestCron = cron.New(cron.WithLocation(time.UTC))
		if _, err := digestCron.AddFunc(cfg.Digest.Schedule, func() {
			digest.Run(ctx)
		}); err != nil {
			lg.Fatal(err, "invalid digest schedule")
		}
		digestCron.Start()
		lg.Info("digest scheduler started", "schedule", cfg.Digest.Schedule)
	}

	serveHealth(lg)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	lg.Info("shutting down worker")
	cancel()
	if digestCron != nil {
		<-digestCron.Stop().Done()
	}

	// Bounded drain: the dispatcher need not finish an in-flight tick
	// beyond this grace window.
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		lg.Info("drain timeout reached, exiting")
	}
}

func buildSink(cfg *config.Config, m *metrics.Metrics) (notifier.Notifier, func(), error) {
	switch cfg.Notifier.Kind {
	case "email":
		return notifier.NewEmailNotifier(cfg.Notifier.Email), func() {}, nil
	case "redis":
		brokerLogger := zerolog.New(os.Stdout).With().Timestamp().Str("component", "redis-broker").Logger()
		broker, err := redis.NewRedisBroker(redis.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   cfg.Redis.MaxRetries,
			RetryBackoff: cfg.Redis.RetryBackoff,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		}, &brokerLogger, m)
		if err != nil {
			return nil, nil, err
		}
		return notifier.NewBrokerNotifier(broker), closeBroker(broker), nil
	}
	return nil, nil, fmt.Errorf("unknown notifier kind %q", cfg.Notifier.Kind)
}

func closeBroker(broker messaging.Broker) func() {
	return func() {
		if err := broker.Close(); err != nil {
			zlog.Error().Err(err).Msg("failed to close broker")
		}
	}
}

func serveHealth(lg *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			lg.Error(err, "health server failed")
		}
	}()
}
