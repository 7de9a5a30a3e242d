package pipeline

import "time"

const (
	// DefaultWorkers matches the batch_scrape default worker count.
	DefaultWorkers = 30

	// DefaultWallClock bounds the whole run regardless of how many targets
	// remain unprocessed.
	DefaultWallClock = 10 * time.Minute
)

// Config controls the scraping pipeline's concurrency and time budget.
type Config struct {
	Workers          int           `env:"SCRAPE_WORKERS" envDefault:"30"`
	WallClockTimeout time.Duration `env:"SCRAPE_WALL_CLOCK_TIMEOUT" envDefault:"10m"`
}

func (c Config) workers() int {
	if c.Workers <= 0 {
		return DefaultWorkers
	}

	return c.Workers
}

func (c Config) wallClock() time.Duration {
	if c.WallClockTimeout <= 0 {
		return DefaultWallClock
	}

	return c.WallClockTimeout
}
