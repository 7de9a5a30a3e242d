// Command scrape runs the concurrent scraping pipeline over
// sample-websites.csv and writes scraped_company_data.csv.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/corpfinder/corpfinder/internal/config"
	"github.com/corpfinder/corpfinder/internal/dataset"
	"github.com/corpfinder/corpfinder/internal/fetch"
	"github.com/corpfinder/corpfinder/internal/pipeline"
)

func main() {
	inputPath := flag.String("input", "sample-websites.csv", "path to the websites CSV (one 'domain' column)")
	outputPath := flag.String("output", "scraped_company_data.csv", "path to write scraped_company_data.csv")
	flag.Parse()

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

	targets, err := dataset.LoadTargets(*inputPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *inputPath).Msg("failed to load targets")
	}

	logger.Info().Int("targets", len(targets)).Msg("starting scrape")

	fetcher := fetch.New(cfg.Fetch)
	p := pipeline.New(cfg.Pipeline, fetcher, &logger)

	rows := p.Run(ctx, targets)

	stats := pipeline.Analyze(rows)
	logger.Info().
		Int("total", stats.TotalWebsites).
		Int("successful", stats.Successful).
		Float64("coverage_pct", stats.CoveragePct).
		Int("retried", stats.Retried).
		Float64("avg_retries", stats.AvgRetries).
		Int("max_retries", stats.MaxRetries).
		Interface("fill_rates", stats.FillRates).
		Msg("scrape complete")

	if err := dataset.WriteScrapedRows(*outputPath, rows); err != nil {
		logger.Fatal().Err(err).Str("path", *outputPath).Msg("failed to write scraped rows")
	}

	logger.Info().Str("path", *outputPath).Msg("wrote scraped rows")

	if pipeline.TimedOut(rows) {
		logger.Error().Msg("scrape aborted: wall-clock budget exceeded")
		os.Exit(1)
	}
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
