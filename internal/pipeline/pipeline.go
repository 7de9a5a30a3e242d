// Package pipeline schedules concurrent website scrapes across a bounded
// worker pool, aggregates per-run statistics, and enforces an overall
// wall-clock budget.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/corpfinder/corpfinder/internal/extract"
	"github.com/corpfinder/corpfinder/internal/fetch"
	"github.com/corpfinder/corpfinder/internal/model"
	"github.com/corpfinder/corpfinder/internal/normalize"
)

// Fetcher is the subset of fetch.Fetcher the pipeline depends on, so tests
// can substitute a fake.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (fetch.Result, error)
}

// Pipeline runs a bounded pool of scrape workers over a list of targets.
type Pipeline struct {
	cfg     Config
	fetcher Fetcher
	logger  *zerolog.Logger
}

// New builds a Pipeline from Config over the given Fetcher (a *fetch.Fetcher
// in production, a fake in tests).
func New(cfg Config, fetcher Fetcher, logger *zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, fetcher: fetcher, logger: logger}
}

// Run scrapes every target concurrently across p.cfg.Workers goroutines,
// bounded by p.cfg.WallClockTimeout, and returns one ScrapedRow per target
// in the original order.
func (p *Pipeline) Run(ctx context.Context, targets []model.Target) []model.ScrapedRow {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.wallClock())
	defer cancel()

	rows := make([]model.ScrapedRow, len(targets))
	jobs := make(chan int)

	var wg sync.WaitGroup

	workers := p.cfg.workers()
	if workers > len(targets) && len(targets) > 0 {
		workers = len(targets)
	}

	SetActiveWorkers(workers)
	defer SetActiveWorkers(0)

	var completed atomic.Int64

	progressDone := make(chan struct{})
	go p.reportProgress(ctx, &completed, int64(len(targets)), progressDone)

	for w := 0; w < workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range jobs {
				row := p.scrapeOne(ctx, targets[idx])
				if row.Status == model.StatusFailed && errors.Is(ctx.Err(), context.DeadlineExceeded) {
					row.Error = ErrWallClockExceeded
				}

				rows[idx] = row
				completed.Add(1)
			}
		}()
	}

	for i := range targets {
		select {
		case jobs <- i:
		case <-ctx.Done():
			rows[i] = timeoutRow(targets[i])
		}
	}

	close(jobs)
	wg.Wait()
	close(progressDone)

	for i, row := range rows {
		if row.Website == "" && row.Status == "" {
			rows[i] = timeoutRow(targets[i])
		}
	}

	return rows
}

// ErrWallClockExceeded is the error text recorded on any row that never got
// a chance to run, or that failed once the pipeline's overall wall-clock
// budget had expired.
const ErrWallClockExceeded = "pipeline wall-clock budget exceeded"

func timeoutRow(target model.Target) model.ScrapedRow {
	return model.ScrapedRow{
		Website: target.URL,
		Status:  model.StatusFailed,
		Error:   ErrWallClockExceeded,
	}
}

// TimedOut reports whether any row in a completed run was cut short by the
// wall-clock budget. Callers treat this as a fatal abort of the run.
func TimedOut(rows []model.ScrapedRow) bool {
	for _, row := range rows {
		if row.Error == ErrWallClockExceeded {
			return true
		}
	}

	return false
}

const progressInterval = 10 * time.Second

// reportProgress logs completed/total at a fixed interval until the run
// finishes or the wall clock expires.
func (p *Pipeline) reportProgress(ctx context.Context, completed *atomic.Int64, total int64, done <-chan struct{}) {
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.logger.Info().
				Int64("completed", completed.Load()).
				Int64("total", total).
				Msg("scrape progress")
		}
	}
}

func (p *Pipeline) scrapeOne(ctx context.Context, target model.Target) model.ScrapedRow {
	start := time.Now()

	result, err := p.fetcher.Fetch(ctx, target.URL)

	IncrementRetries(result.Retries)

	if err != nil {
		p.logger.Warn().
			Str("website", target.URL).
			Err(err).
			Msg("scrape failed")

		IncrementProcessed(string(model.StatusFailed))

		return model.ScrapedRow{
			Website: target.URL,
			Domain:  normalize.Domain(target.URL),
			Status:  model.StatusFailed,
			Error:   err.Error(),
			Retries: result.Retries,
		}
	}

	social := extract.SocialLinks(result.Body)
	text := extract.PlainText(result.Body)

	row := model.ScrapedRow{
		Website:        target.URL,
		Domain:         normalize.Domain(target.URL),
		Status:         model.StatusSuccess,
		Phones:         extract.Phones(text),
		Addresses:      extract.Addresses(text),
		FacebookLinks:  social.Facebook,
		TwitterLinks:   social.Twitter,
		InstagramLinks: social.Instagram,
		LinkedinLinks:  social.Linkedin,
		YoutubeLinks:   social.Youtube,
		Retries:        result.Retries,
	}

	IncrementProcessed(string(model.StatusSuccess))

	p.logger.Debug().
		Str("website", target.URL).
		Dur("duration", time.Since(start)).
		Int("retries", result.Retries).
		Msg("scrape succeeded")

	return row
}
