// Command build-index merges a scraped-rows CSV with a company-names CSV,
// then creates/replaces the Elasticsearch index and bulk-loads the merged
// records.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/corpfinder/corpfinder/internal/config"
	"github.com/corpfinder/corpfinder/internal/dataset"
	"github.com/corpfinder/corpfinder/internal/index"
)

func main() {
	scrapedPath := flag.String("scraped", "scraped_company_data.csv", "path to scraped_company_data.csv")
	namesPath := flag.String("names", "sample-websites-company-names.csv", "path to sample-websites-company-names.csv")
	outputPath := flag.String("output", "merged_company_profiles.csv", "path to write merged_company_profiles.csv")
	flag.Parse()

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	setLogLevel(cfg.LogLevel)

	scraped, err := dataset.ReadScrapedRows(*scrapedPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *scrapedPath).Msg("failed to read scraped rows")
	}

	names, err := dataset.LoadNameRows(*namesPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", *namesPath).Msg("failed to read name rows")
	}

	records := dataset.Merge(scraped, names)

	if err := dataset.WriteCompanyRecords(*outputPath, records); err != nil {
		logger.Fatal().Err(err).Str("path", *outputPath).Msg("failed to write merged records")
	}

	logger.Info().Int("records", len(records)).Str("path", *outputPath).Msg("wrote merged company profiles")

	store, err := index.New(cfg.Index, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create index client")
	}

	ctx := context.Background()

	if err := index.WithRetry(ctx, index.DefaultRetryConfig(), func() error {
		return store.CreateOrReplace(ctx)
	}); err != nil {
		logger.Fatal().Err(err).Msg("failed to create or replace index")
	}

	successCount, err := store.BulkLoad(ctx, records)
	if err != nil {
		logger.Fatal().Err(err).Msg("bulk load produced zero successes, aborting")
	}

	if successCount < len(records) {
		logger.Warn().
			Int("indexed", successCount).
			Int("total", len(records)).
			Msg("some documents failed to index; continuing with partial index")
	}

	if err := store.Refresh(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to refresh index")
	}

	count, err := store.Count(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to count indexed documents")
	}

	logger.Info().Int("indexed", successCount).Int("index_count", count).Msg("build-index complete")
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
