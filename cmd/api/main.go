package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/config"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/handler"
	eventHandler "github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/handler/event"
	guildHandler "github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/handler/guild"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/repository/postgres"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/router"
	eventService "github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/service/event"
	guildService "github.com/chopperdodo/DC-KS-ASSISTANT-R4/internal/service/guild"
	"github.com/chopperdodo/DC-KS-ASSISTANT-R4/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("ks_assistant", "api")
	eventRepo := postgres.NewEventRepository(db, m)
	guildRepo := postgres.NewGuildSettingsRepository(db, m)

	eventSvc := eventService.NewService(eventRepo)
	guildSvc := guildService.NewService(guildRepo)

	h := handler.NewHandler(db)
	r := router.NewRouter(h,
		router.Config{
			RateLimit:      rate.Limit(50),
			RateBurst:      100,
			RequestTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			MetricsPrefix:  "ks_assistant_api",
		},
		eventHandler.NewHandler(eventSvc),
		guildHandler.NewHandler(guildSvc),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down API server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
