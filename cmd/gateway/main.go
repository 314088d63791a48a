package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"renohub/internal/gateway/app"
	"renohub/internal/gateway/config"
	"renohub/internal/gateway/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logging.New(false, "info")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}
	log := logging.New(cfg.IsLocal(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize app")
	}

	go func() {
		if err := a.Start(); err != nil {
			log.Error().Err(err).Msg("server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exiting")
}
