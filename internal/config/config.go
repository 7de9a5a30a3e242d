// Package config loads the environment-sourced configuration shared by the
// three corpfinder binaries (scrape, build-index, server), composing the
// per-package Config structs owned by fetch, pipeline, and index.
package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/corpfinder/corpfinder/internal/fetch"
	"github.com/corpfinder/corpfinder/internal/index"
	"github.com/corpfinder/corpfinder/internal/pipeline"
)

// Config is the full environment contract shared by the binaries: Elasticsearch
// connection, Chrome binary path, pipeline concurrency, and the HTTP port.
type Config struct {
	Index    index.Config
	Fetch    fetch.Config
	Pipeline pipeline.Config

	Port     int    `env:"PORT" envDefault:"5000"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads a .env file if present, then parses environment variables
// into Config. Every field is optional with a documented default.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
