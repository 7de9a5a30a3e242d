package pipeline

import "github.com/corpfinder/corpfinder/internal/model"

// Stats summarizes one completed run: overall coverage, per-field fill
// rates among successful scrapes, and retry behavior.
type Stats struct {
	TotalWebsites int
	Successful    int
	CoveragePct   float64
	FillRates     map[string]float64
	Retried       int
	AvgRetries    float64
	MaxRetries    int
}

// Analyze computes Stats over a completed batch of rows, matching the
// coverage/fill-rate/retry definitions used to report scrape quality.
func Analyze(rows []model.ScrapedRow) Stats {
	total := len(rows)

	stats := Stats{
		TotalWebsites: total,
		FillRates:     make(map[string]float64),
	}

	if total == 0 {
		return stats
	}

	var (
		successful  int
		withPhones  int
		withFB      int
		withTwitter int
		withInsta   int
		withLinked  int
		withYoutube int
		withAddress int
		retried     int
		sumRetries  int
		maxRetries  int
	)

	for _, row := range rows {
		if row.Retries > maxRetries {
			maxRetries = row.Retries
		}

		sumRetries += row.Retries

		if row.Retries > 0 {
			retried++
		}

		if row.Status != model.StatusSuccess {
			continue
		}

		successful++

		if len(row.Phones) > 0 {
			withPhones++
		}

		if len(row.FacebookLinks) > 0 {
			withFB++
		}

		if len(row.TwitterLinks) > 0 {
			withTwitter++
		}

		if len(row.InstagramLinks) > 0 {
			withInsta++
		}

		if len(row.LinkedinLinks) > 0 {
			withLinked++
		}

		if len(row.YoutubeLinks) > 0 {
			withYoutube++
		}

		if len(row.Addresses) > 0 {
			withAddress++
		}
	}

	stats.Successful = successful
	stats.CoveragePct = 100 * float64(successful) / float64(total)
	stats.Retried = retried
	stats.AvgRetries = float64(sumRetries) / float64(total)
	stats.MaxRetries = maxRetries

	if successful > 0 {
		stats.FillRates["phones"] = 100 * float64(withPhones) / float64(successful)
		stats.FillRates["facebook_links"] = 100 * float64(withFB) / float64(successful)
		stats.FillRates["twitter_links"] = 100 * float64(withTwitter) / float64(successful)
		stats.FillRates["instagram_links"] = 100 * float64(withInsta) / float64(successful)
		stats.FillRates["linkedin_links"] = 100 * float64(withLinked) / float64(successful)
		stats.FillRates["youtube_links"] = 100 * float64(withYoutube) / float64(successful)
		stats.FillRates["addresses"] = 100 * float64(withAddress) / float64(successful)
	}

	for field, rate := range stats.FillRates {
		SetFieldFillRate(field, rate/100)
	}

	return stats
}
