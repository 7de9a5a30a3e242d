// Command server runs the HTTP match API over the matcher, backed by the
// Elasticsearch company index.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/corpfinder/corpfinder/internal/config"
	"github.com/corpfinder/corpfinder/internal/httpapi"
	"github.com/corpfinder/corpfinder/internal/index"
	"github.com/corpfinder/corpfinder/internal/match"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	setLogLevel(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	var storeHandle match.Store

	store, err := index.New(cfg.Index, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create index client; API functionality may be degraded")
	} else {
		storeHandle = store
	}

	matcher := match.New(storeHandle)
	srv := httpapi.New(matcher, cfg.Port, &logger)

	if store != nil {
		if exists, err := store.Exists(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to verify index exists at startup")
		} else {
			srv.SetReady(exists)
		}
	}

	if err := srv.Start(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}

	logger.Info().Msg("server stopped")
}

func setLogLevel(level string) {
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
